package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"naspac/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store stores blobs in an S3 (or MinIO) bucket.
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3Store(client *s3.Client, bucket, publicURL string) *S3Store {
	if !strings.HasSuffix(publicURL, "/") {
		publicURL += "/"
	}
	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
	}
}

func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}

	return s.PublicURL(key), nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%s: %w", key, types.ErrFileNotFound)
		}
		return nil, fmt.Errorf("failed to fetch %s from s3: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from s3: %w", key, err)
	}

	return data, nil
}

func (s *S3Store) PublicURL(key string) string {
	return s.publicURL + key
}

func (s *S3Store) KeyFromURL(publicURL string) (string, error) {
	if strings.HasPrefix(publicURL, s.publicURL) {
		return strings.TrimPrefix(publicURL, s.publicURL), nil
	}

	parsed, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("parse public url %q: %w", publicURL, err)
	}
	base, err := url.Parse(s.publicURL)
	if err != nil {
		return "", fmt.Errorf("parse store url: %w", err)
	}
	if parsed.Host == base.Host && strings.HasPrefix(parsed.Path, base.Path) {
		return strings.TrimPrefix(parsed.Path, base.Path), nil
	}

	return "", fmt.Errorf("url %q is not served by this store", publicURL)
}
