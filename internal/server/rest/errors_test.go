package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/services"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"duplicate", fmt.Errorf("error creating user: %w", common.ErrDuplicateUsername), http.StatusBadRequest, "Username already exists"},
		{"validation", fmt.Errorf("%w: username is required", common.ErrValidation), http.StatusBadRequest, "validation error: username is required"},
		{"user not found", common.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"wrong password", common.ErrWrongPassword, http.StatusUnauthorized, "Incorrect password"},
		{"expired", common.ErrTokenExpired, http.StatusUnauthorized, "Invalid or expired token"},
		{"invalid", common.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"missing", common.ErrAuthenticationFailed, http.StatusUnauthorized, "Missing or invalid token"},
		{"not found", fmt.Errorf("error loading goal: %w", common.ErrNotFound), http.StatusNotFound, "Not Found"},
		{"rate limited", common.ErrRateLimited, http.StatusTooManyRequests, "Rate limit exceeded, try again later"},
		{"upstream", &services.UpstreamError{Detail: "AI generation failed: x"}, http.StatusInternalServerError, "AI generation failed: x"},
		{"store", fmt.Errorf("%w: dial tcp", common.ErrStoreUnavailable), http.StatusInternalServerError, "Op failed: store unavailable: dial tcp"},
		{"other", errors.New("kaput"), http.StatusInternalServerError, "Op failed: kaput"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := statusFor("Op failed", tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantDetail, detail)
		})
	}
}
