// Package storage persists uploaded media on local disk or in S3.
package storage

import (
	"context"
	"fmt"
	"strings"

	"nightlife/internal/config"
)

// Store writes objects and returns their public URL.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// New selects the backend configured by MEDIA_STORAGE.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.MediaStorage {
	case "", "local":
		return NewLocalStore(cfg.MediaUploadDir, cfg.MediaPublicBaseURL), nil
	case "s3":
		return NewS3Store(ctx, S3StoreConfig{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.MediaPublicBaseURL,
		})
	}
	return nil, fmt.Errorf("unknown media storage %q", cfg.MediaStorage)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
