// Package server is the JSON HTTP surface over the workflow engine. It
// authenticates callers, decodes requests and maps engine errors to
// status codes; all domain decisions live in the engine.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"naspac/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config
	engine Engine

	cookie *securecookie.SecureCookie

	localFilesDir string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	engine Engine,
	localFilesDir string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		engine: engine,
		cookie: securecookie.New(hashKey, blockKey),

		localFilesDir: localFilesDir,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.RequestID)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/submissions", s.handleSubmitOnboarding, http.MethodPost)
		r.HandleFunc("/api/submissions/verification-form", s.handleSubmitVerificationForm, http.MethodPost)
		r.HandleFunc("/api/submissions/:submissionID/status", s.handleUpdateStatus, http.MethodPatch)

		r.HandleFunc("/api/documents/sign", s.handleSignDocument, http.MethodPost)

		r.HandleFunc("/api/letters/:letterType/download", s.handleDownloadLetter, http.MethodGet)

		r.HandleFunc("/api/reports/status-counts", s.handleStatusCounts, http.MethodGet)
		r.HandleFunc("/api/notifications", s.handleListNotifications, http.MethodGet)

		r.HandleFunc("/api/users/signature", s.handleUploadSignature, http.MethodPost)
		r.HandleFunc("/api/users/stamp", s.handleUploadStamp, http.MethodPost)
		r.HandleFunc("/api/templates", s.handleUploadTemplate, http.MethodPost)
	})

	// With the local storage backend the stored blobs are served
	// directly; behind S3 the bucket serves them and this mount is off.
	if s.localFilesDir != "" {
		r.Handle("/files/...", http.StripPrefix("/files/",
			http.FileServer(http.Dir(s.localFilesDir))), http.MethodGet)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
