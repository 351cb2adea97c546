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

	"naspac/internal/db"
	"naspac/internal/notify"
	"naspac/internal/pdf"
	"naspac/internal/server"
	"naspac/internal/storage"
	"naspac/internal/store"
	"naspac/internal/workflow"
	"naspac/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	datastore := store.NewPostgres(pool)

	blobs, localFilesDir, err := buildStorage(ctx, config)
	if err != nil {
		return err
	}

	signer := pdf.NewSigner(pdf.OrgContact{
		Name:         config.OrgName,
		Email:        config.OrgEmail,
		PhonePrimary: config.OrgPhonePrimary,
		PhoneAlt:     config.OrgPhoneAlt,
	})
	letters := pdf.NewLetterRenderer(pdf.DefaultLetterConfig(
		config.OrgName, config.SignerName, config.SignerTitle))

	sender, err := buildSender(config, logger)
	if err != nil {
		return err
	}
	dispatcher := notify.NewDispatcher(sender, logger)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	engine := workflow.NewEngine(datastore, blobs, signer, letters, dispatcher, logger)

	// A configured letterhead that cannot be loaded is a deployment
	// error; letters must not silently render without it.
	if config.LetterheadKey != "" {
		letterhead, err := blobs.Get(ctx, config.LetterheadKey)
		if err != nil {
			return fmt.Errorf("load letterhead %s: %w", config.LetterheadKey, err)
		}
		engine.SetLetterhead(letterhead)
	}

	srv, err := server.New(config, logger, engine, localFilesDir)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

// buildStorage returns the configured blob store plus, for the local
// backend, the directory the HTTP layer serves under /files/.
func buildStorage(ctx context.Context, config *types.Config) (storage.Store, string, error) {
	switch config.StorageBackend {
	case "local":
		local, err := storage.NewLocalStore(config.StorageDir, config.StoragePublic)
		if err != nil {
			return nil, "", err
		}
		return local, local.BaseDir(), nil

	case "s3":
		if config.S3Bucket == "" {
			return nil, "", fmt.Errorf("set S3_BUCKET for the s3 storage backend")
		}

		awsConfig, err := loadAWSConfig(ctx, config)
		if err != nil {
			return nil, "", err
		}
		client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if config.S3BaseEndpoint != "" {
				o.BaseEndpoint = aws.String(config.S3BaseEndpoint)
				o.UsePathStyle = true
			}
		})

		publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.S3Bucket, config.S3Region)
		if config.S3BaseEndpoint != "" {
			publicURL = fmt.Sprintf("%s/%s", config.S3BaseEndpoint, config.S3Bucket)
		}
		return storage.NewS3Store(client, config.S3Bucket, publicURL), "", nil

	default:
		return nil, "", fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}

func buildSender(config *types.Config, logger *logrus.Logger) (notify.Sender, error) {
	if config.MailerHost == "" {
		logger.Warn("MAILER_HOST not set, emails will only be logged")
		return notify.NewLogSender(logger), nil
	}
	return notify.NewSMTPSender(config)
}
