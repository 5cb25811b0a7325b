package twofactor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/secyourflow/authkit/pkg/qrcode"
	"github.com/secyourflow/authkit/pkg/session"
	"github.com/secyourflow/authkit/pkg/sessiontrust"
)

type codeRequest struct {
	Code string `json:"code"`
}

func decodeCode(r *http.Request) (string, bool) {
	var req codeRequest
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<12)).Decode(&req); err != nil {
		return "", false
	}
	return req.Code, req.Code != ""
}

func (s *Service) status(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	status, err := s.core.Status(r.Context(), sess.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var verifiedAt *string
	if status.VerifiedAt != nil {
		formatted := status.VerifiedAt.UTC().Format(time.RFC3339)
		verifiedAt = &formatted
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"enabled":                status.Enabled,
		"verifiedAt":             verifiedAt,
		"hasPendingEnrollment":   status.HasPendingEnrollment,
		"recoveryCodesRemaining": status.RecoveryCodesRemaining,
	})
}

func (s *Service) enroll(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	result, err := s.core.Enroll(r.Context(), sess.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// The QR code is a convenience rendering of the otpauth URL; enrollment
	// still works if image generation fails.
	qr, err := qrcode.GenerateDataURI(result.OtpauthURL, s.cfg.QRSize)
	if err != nil {
		s.log.WarnContext(r.Context(), "provisioning QR generation failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"secret":     result.Secret,
		"otpauthUrl": result.OtpauthURL,
		"qrCode":     qr,
	})
}

func (s *Service) verify(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	code, ok := decodeCode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	if !s.consumeAttempt(w, r, "totp-verify", sess.UserID) {
		return
	}

	nowMs := time.Now().UnixMilli()
	recoveryCodes, err := s.core.VerifyEnrollment(r.Context(), sess.UserID, code, nowMs)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.resetAttempts(r, "totp-verify", sess.UserID)
	s.markSessionVerified(r, sess, nowMs)

	writeJSON(w, http.StatusOK, map[string]any{
		"recoveryCodes": recoveryCodes,
	})
}

func (s *Service) challenge(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	code, ok := decodeCode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	if !s.consumeAttempt(w, r, "totp-challenge", sess.UserID) {
		return
	}

	nowMs := time.Now().UnixMilli()
	result, err := s.core.Challenge(r.Context(), sess.UserID, code, nowMs)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.resetAttempts(r, "totp-challenge", sess.UserID)
	s.markSessionVerified(r, sess, nowMs)

	writeJSON(w, http.StatusOK, map[string]any{
		"usedRecoveryCode":       result.UsedRecoveryCode,
		"recoveryCodesRemaining": result.RecoveryCodesRemaining,
	})
}

func (s *Service) disable(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	code, ok := decodeCode(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	if !s.consumeAttempt(w, r, "totp-disable", sess.UserID) {
		return
	}

	if err := s.core.Disable(r.Context(), sess.UserID, code, time.Now().UnixMilli()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.resetAttempts(r, "totp-disable", sess.UserID)

	// Clear the session's verified flag along with the enrollment.
	update := s.keychain.Build(sessiontrust.Update{
		TwoFactorVerified: false,
		TOTPEnabled:       false,
	})
	if _, err := s.sessions.ApplyTwoFactorUpdate(r.Context(), sess.Token, update); err != nil {
		s.log.ErrorContext(r.Context(), "session update failed after disable", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"disabled": true,
	})
}

func (s *Service) regenerateRecoveryCodes(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	// Regenerating invalidates every outstanding code, so require a session
	// that already passed the second factor.
	if !sess.TwoFactorVerified() {
		writeError(w, http.StatusForbidden, "second_factor_required", "verify a code before regenerating recovery codes")
		return
	}

	codes, err := s.core.RegenerateRecoveryCodes(r.Context(), sess.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"recoveryCodes": codes,
	})
}

// markSessionVerified asks the session layer to flip the second-factor flag
// through a trusted update. Failure to update the session does not undo the
// verification itself; the user can re-verify on the next request.
func (s *Service) markSessionVerified(r *http.Request, sess *session.Session, nowMs int64) {
	update := s.keychain.Build(sessiontrust.Update{
		TwoFactorVerified:   true,
		TwoFactorVerifiedAt: nowMs,
		TOTPEnabled:         true,
	})
	if _, err := s.sessions.ApplyTwoFactorUpdate(r.Context(), sess.Token, update); err != nil {
		s.log.ErrorContext(r.Context(), "session update failed after verification", "error", err)
	}
}
