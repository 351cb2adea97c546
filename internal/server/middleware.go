package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"naspac/pkg/types"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// cookieAccessToken is the encrypted access-token cookie set at login.
const cookieAccessToken = "naspac_access_token"

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyActor     contextKey = "actor"
	contextKeyRequestID contextKey = "request_id"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		requestID, _ := r.Context().Value(contextKeyRequestID).(string)
		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
			"request_id":  requestID,
		}).Info("http request")
	})
}

// RequireAuth resolves the caller from the encrypted access-token cookie
// or a bearer token, verifies the JWT and stores the Actor in context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, ok := s.accessToken(r)
		if !ok {
			s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
			return
		}

		token, err := jwt.Parse(
			[]byte(accessToken),
			jwt.WithKey(jwa.HS256(), []byte(s.config.JWTSecret)),
			jwt.WithValidate(true),
		)
		if err != nil {
			s.logger.WithError(err).Debug("jwt verification failed")
			s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
			return
		}

		userID, ok := token.Subject()
		if !ok || userID == "" {
			s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
			return
		}

		var role string
		if err := token.Get("role", &role); err != nil || !validRole(types.Role(role)) {
			s.respondError(w, http.StatusUnauthorized, "missing or invalid credentials")
			return
		}

		actor := types.Actor{ID: userID, Role: types.Role(role)}
		ctx := context.WithValue(r.Context(), contextKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessToken extracts the raw JWT: the encrypted cookie for browser
// sessions, the Authorization header for API clients.
func (s *Service) accessToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(cookieAccessToken); err == nil {
		var accessToken string
		if err := s.cookie.Decode(cookieAccessToken, cookie.Value, &accessToken); err == nil {
			return accessToken, true
		}
		s.logger.Debug("failed to decrypt access token cookie")
	}

	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
		return token, true
	}
	return "", false
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) actorFromContext(ctx context.Context) (types.Actor, error) {
	actor, ok := ctx.Value(contextKeyActor).(types.Actor)
	if !ok {
		return types.Actor{}, fmt.Errorf("actor not found in context")
	}
	return actor, nil
}

func validRole(role types.Role) bool {
	switch role {
	case types.RolePersonnel, types.RoleStaff, types.RoleAdmin, types.RoleSupervisor:
		return true
	}
	return false
}
