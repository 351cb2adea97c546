// Package storage provides content-addressable-by-key blob storage with
// local-disk and S3 backends.
package storage

import "context"

// Store is the blob storage contract the workflow engine depends on.
// Upload returns the public URL for the stored key; Get fails with
// types.ErrFileNotFound when the key is absent.
type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	PublicURL(key string) string
	KeyFromURL(publicURL string) (string, error)
}
