package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/services"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

// statusFor maps a service error to a status code and client-facing detail.
// op prefixes the detail of unexpected failures.
func statusFor(op string, err error) (int, string) {
	var upstream *services.UpstreamError

	switch {
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, upstream.Detail
	case errors.Is(err, common.ErrDuplicateUsername):
		return http.StatusBadRequest, "Username already exists"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrWrongPassword):
		return http.StatusUnauthorized, "Incorrect password"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, common.ErrAuthenticationFailed):
		return http.StatusUnauthorized, "Missing or invalid token"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, common.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded, try again later"
	case errors.Is(err, common.ErrExportDisabled):
		return http.StatusNotImplemented, "Plan export is not configured"
	default:
		return http.StatusInternalServerError, op + ": " + err.Error()
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, detail := statusFor(op, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), op, "error", err.Error())
	} else {
		s.logger.Debug(r.Context(), op, "status", status, "error", err.Error())
	}
	writeDetail(w, status, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
