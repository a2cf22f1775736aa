// Package storage abstracts where order exports land. Two drivers:
// "local" writes under a root directory, "s3" talks to any S3-compatible
// object store (AWS, MinIO, R2).
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/shashiranjanraj/savannah/config"
)

// Disk stores and retrieves named blobs.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	// List returns the keys under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// URL returns where a client can fetch path.
	URL(path string) string
}

// Connect builds the configured disk.
func Connect(cfg config.StorageConfig) (Disk, error) {
	switch cfg.Disk {
	case "", "local":
		return newLocalDisk(cfg.LocalRoot), nil
	case "s3":
		return newS3Disk(cfg)
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", cfg.Disk)
	}
}
