package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"naspac/pkg/types"
)

// LocalStore writes blobs under a base directory and serves them through
// a public URL prefix (the file server is mounted by the HTTP layer).
type LocalStore struct {
	baseDir      string
	publicPrefix string
}

func NewLocalStore(baseDir, publicPrefix string) (*LocalStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("storage base directory not set")
	}
	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir, publicPrefix: publicPrefix}, nil
}

// BaseDir exposes the root so the HTTP layer can mount a file server.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

func (s *LocalStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	targetPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return "", fmt.Errorf("create blob directory: %w", err)
	}
	if err := os.WriteFile(targetPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	targetPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, types.ErrFileNotFound)
		}
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return data, nil
}

func (s *LocalStore) PublicURL(key string) string {
	return s.publicPrefix + key
}

// KeyFromURL maps a public URL (absolute or prefix-relative) back to its
// storage key.
func (s *LocalStore) KeyFromURL(publicURL string) (string, error) {
	pathname := publicURL
	if parsed, err := url.Parse(publicURL); err == nil && parsed.Path != "" {
		pathname = parsed.Path
	}
	if !strings.HasPrefix(pathname, s.publicPrefix) {
		return "", fmt.Errorf("url %q is not served by this store", publicURL)
	}
	key := strings.TrimPrefix(pathname, s.publicPrefix)
	if key == "" {
		return "", fmt.Errorf("url %q has no storage key", publicURL)
	}
	return key, nil
}

// resolve joins key onto the base directory, refusing path escapes.
func (s *LocalStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + key)
	target := filepath.Join(s.baseDir, cleaned)
	if !strings.HasPrefix(target, filepath.Clean(s.baseDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return target, nil
}
