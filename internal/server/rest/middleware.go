package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/logging"
	"github.com/dmitrijs2005/fitplan/internal/server/auth"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFromContext returns the caller set by the auth middleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		ctx := logging.WithRequestID(r.Context(), reqID)
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.logger.Info(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"size", rec.size,
			"duration", time.Since(start).String(),
		)
	})
}

// authenticated requires a valid bearer token and stores the caller's
// identity in the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerScheme+" ")
		if !ok || strings.TrimSpace(token) == "" {
			s.fail(w, r, "Authentication failed", common.ErrAuthenticationFailed)
			return
		}

		id, err := s.deps.Tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			s.fail(w, r, "Authentication failed", err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, id)
		next(w, r.WithContext(ctx))
	}
}

type recoveryLogger struct {
	logger logging.Logger
}

func (l recoveryLogger) Println(args ...any) {
	l.logger.Error(context.Background(), "panic recovered", "panic", fmt.Sprint(args...))
}
