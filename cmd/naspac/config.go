package main

import (
	"context"
	"fmt"

	"naspac/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/kelseyhightower/envconfig"
)

func loadConfig() (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.JWTSecret == "" {
		return nil, fmt.Errorf("set JWT_SECRET")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	return c, nil
}

// loadAWSConfig supports both real S3 and S3-compatible endpoints
// (MinIO) via static credentials when S3_BASE_ENDPOINT is set.
func loadAWSConfig(ctx context.Context, c *types.Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if c.S3Region != "" {
		opts = append(opts, config.WithRegion(c.S3Region))
	}
	if c.S3AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.S3AccessKey, c.S3SecretKey, "")))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return awsConfig, nil
}
