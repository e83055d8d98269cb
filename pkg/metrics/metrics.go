package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mailcraft", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mailcraft", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	TemplatesSaved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mailcraft", Name: "templates_saved_total", Help: "Number of templates saved by store type."},
		[]string{"store"},
	)
	TemplatesRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mailcraft", Name: "templates_rendered_total", Help: "Number of render requests by result (ok, not_found, error)."},
		[]string{"result"},
	)
	RenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "mailcraft", Name: "render_duration_seconds", Help: "Time to load and render a template.", Buckets: prometheus.DefBuckets},
	)
	ImagesUploaded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mailcraft", Name: "images_uploaded_total", Help: "Number of uploaded images by storage driver."},
		[]string{"driver"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(TemplatesSaved)
	reg.MustRegister(TemplatesRendered)
	reg.MustRegister(RenderDuration)
	reg.MustRegister(ImagesUploaded)
}
