package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage - хранилище картинок объявлений
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	// GetURL - публичная ссылка, которая попадает в Item.images
	GetURL(path string) string
}

type Config struct {
	Type      string // local, s3, cloudflare_r2
	BasePath  string
	BaseURL   string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("endpoint is required for Cloudflare R2")
		}
		cfg.Region = "auto"
		if cfg.BaseURL == "" {
			cfg.BaseURL = fmt.Sprintf("https://%s.r2.dev", cfg.Bucket)
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
