package storage

import "time"

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicBaseURL, when set, is used to build object URLs instead of
	// presigned links (e.g. a CDN in front of a public bucket).
	PublicBaseURL string
	PresignTTL    time.Duration
}

// LocalConfig configures the disk-backed image store.
type LocalConfig struct {
	Dir string
	// BaseURL prefixes stored file names, e.g. "http://localhost:5000/uploads".
	BaseURL string
}
