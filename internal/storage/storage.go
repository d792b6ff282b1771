// Package storage selects the object storage backend.
package storage

import (
	"fmt"

	"taxextract/internal/config"
	"taxextract/internal/port"
	"taxextract/internal/storage/minio"
	"taxextract/internal/storage/s3"
)

// New returns the ObjectStorage for cfg.Provider.
func New(cfg *config.StorageConfig) (port.ObjectStorage, error) {
	switch cfg.Provider {
	case "", "s3":
		return s3.NewS3Client(cfg)
	case "minio":
		return minio.NewClient(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider: %q", cfg.Provider)
	}
}
