package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mailcraft/mailcraft/handlers"
	"github.com/mailcraft/mailcraft/internal/config"
	"github.com/mailcraft/mailcraft/internal/database"
	"github.com/mailcraft/mailcraft/internal/document/handler"
	"github.com/mailcraft/mailcraft/internal/document/service"
	"github.com/mailcraft/mailcraft/internal/drafts"
	"github.com/mailcraft/mailcraft/internal/layout"
	"github.com/mailcraft/mailcraft/internal/storage"
	"github.com/mailcraft/mailcraft/pkg/logger"
	"github.com/mailcraft/mailcraft/pkg/metrics"
	"github.com/mailcraft/mailcraft/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal, LOG_FORMAT: json|console
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.SetFormat(os.Getenv("LOG_FORMAT"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v uploads=%s", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Uploads.Driver)

	ctx := context.Background()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), middleware.CORS(cfg.Server.CORSOrigins))

	// Redis backs drafts and the shared rate limiter; both fall back to memory.
	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = client.Close()
		} else {
			rdb = client
			defer func() { _ = rdb.Close() }()
			logger.Infof("connected to Redis: %s", addr)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	layouts, err := layout.NewStore(cfg.Layouts.Dir, cfg.Layouts.Registry)
	if err != nil {
		logger.Fatalf("failed to open layouts: %v", err)
	}

	var mongoClient *mongo.Client
	var svc service.Service
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts)
		if err != nil {
			logger.Warnf("could not connect to MongoDB, using in-memory templates: %v", err)
		} else {
			defer func() { _ = mongoClient.Disconnect(context.Background()) }()
			db := mongoClient.Database(cfg.MongoDB.Database)
			svc = service.NewMongoService(db.Collection(cfg.MongoDB.TemplateCollection), db.Collection(cfg.MongoDB.HistoryCollection), layouts)
			logger.Infof("templates stored in MongoDB %s.%s", cfg.MongoDB.Database, cfg.MongoDB.TemplateCollection)
		}
	}
	if svc == nil {
		svc = service.NewMemoryService(layouts)
	}

	var draftRepo drafts.Repository = drafts.NewMemoryRepository()
	if rdb != nil {
		draftRepo = drafts.NewRedisRepository(rdb, "draft:")
	}
	draftSvc := drafts.NewService(draftRepo, cfg.Redis.DraftTTL)

	uploader, err := newUploader(cfg, r)
	if err != nil {
		logger.Warnf("image uploads disabled: %v", err)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// ready only when every configured dependency answers
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{"templates": true, "drafts": true, "uploads": uploader != nil}

		if cfg.MongoDB.URI != "" {
			deps["templates"] = mongoClient != nil && mongoClient.Ping(c.Request.Context(), nil) == nil
		}
		if cfg.Redis.Host != "" {
			deps["drafts"] = rdb != nil && rdb.Ping(c.Request.Context()).Err() == nil
		}
		for _, ok := range deps {
			if !ok {
				ready = false
			}
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	var up handler.ImageUploader
	if uploader != nil {
		up = uploader
	}
	handler.New(svc, draftSvc, layouts, up).Register(r)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("email builder listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

// newUploader picks the image store. Local uploads are served back under /uploads.
func newUploader(cfg *config.Config, r *gin.Engine) (*storage.Uploader, error) {
	switch cfg.Uploads.Driver {
	case "minio":
		ms, err := storage.NewMinIOStorage(&storage.MinIOConfig{
			Endpoint:      cfg.MinIO.Endpoint,
			AccessKey:     cfg.MinIO.AccessKey,
			SecretKey:     cfg.MinIO.SecretKey,
			UseSSL:        cfg.MinIO.UseSSL,
			Bucket:        cfg.MinIO.Bucket,
			PublicBaseURL: cfg.MinIO.PublicBaseURL,
			PresignTTL:    cfg.MinIO.PresignTTL,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewUploader(ms, cfg.Uploads.MaxBytes), nil
	case "local", "":
		ls, err := storage.NewLocalStorage(storage.LocalConfig{Dir: cfg.Uploads.Dir, BaseURL: cfg.Uploads.BaseURL})
		if err != nil {
			return nil, err
		}
		r.Static("/uploads", ls.Dir())
		return storage.NewUploader(ls, cfg.Uploads.MaxBytes), nil
	}
	return nil, fmt.Errorf("unknown upload driver %q", cfg.Uploads.Driver)
}
