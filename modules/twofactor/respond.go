package twofactor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/secyourflow/authkit/pkg/ratelimiter"
	"github.com/secyourflow/authkit/pkg/sealing"
	"github.com/secyourflow/authkit/pkg/twofactor"
)

// writeJSON renders a response with Cache-Control: no-store. Every endpoint
// here returns secrets, codes, or account security state; none of it may be
// cached by an intermediary.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

func writeRetryAfter(w http.ResponseWriter, result *ratelimiter.Result) {
	retryAfter := int(result.RetryAfter().Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts, try again later")
}

// writeServiceError maps core failures onto responses. Service errors carry
// their own status and stable code; a corrupt sealed secret and anything
// unexpected collapse into a logged 500 so nothing internal leaks.
func (s *Service) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *twofactor.Error
	if errors.As(err, &svcErr) {
		writeError(w, svcErr.Status, svcErr.Code, svcErr.Message)
		return
	}

	if errors.Is(err, sealing.ErrInvalidCredential) {
		s.log.ErrorContext(r.Context(), "stored TOTP secret is unusable, re-enrollment required", "error", err)
	} else {
		s.log.ErrorContext(r.Context(), "two-factor operation failed", "error", err)
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
}
