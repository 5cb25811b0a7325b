package twofactor

import (
	"context"
	"time"

	"github.com/secyourflow/authkit/pkg/recovery"
	"github.com/secyourflow/authkit/pkg/sealing"
	"github.com/secyourflow/authkit/pkg/totp"
)

// DefaultIssuer is the issuer label shown in authenticator apps when no
// override is configured.
const DefaultIssuer = "SecYourFlow"

// Service orchestrates TOTP enrollment, verification, and recovery-code
// handling against an injected user store. It owns no persistent state of its
// own; every operation is one record fetch, in-memory crypto, and at most one
// record update.
type Service struct {
	store  UserStore
	sealer *sealing.Sealer
	hasher *recovery.Hasher
	issuer string
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer overrides the issuer label used in provisioning URIs.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// NewService creates a two-factor service. The sealer protects TOTP secrets
// at rest and the hasher keys recovery-code hashes; both must be constructed
// from server-side key material before the service can exist, which surfaces
// missing keys at startup rather than mid-request.
func NewService(store UserStore, sealer *sealing.Sealer, hasher *recovery.Hasher, opts ...Option) *Service {
	s := &Service{
		store:  store,
		sealer: sealer,
		hasher: hasher,
		issuer: DefaultIssuer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnrollResult is returned once at enrollment; the plaintext secret is never
// persisted or shown again.
type EnrollResult struct {
	Secret     string
	OtpauthURL string
}

// ChallengeResult reports how a login-time challenge was satisfied.
type ChallengeResult struct {
	UsedRecoveryCode       bool
	RecoveryCodesRemaining int
}

// StatusResult is the safe-to-display two-factor state of a user.
type StatusResult struct {
	Enabled                bool
	VerifiedAt             *time.Time
	HasPendingEnrollment   bool
	RecoveryCodesRemaining int
}

// Status returns the user's two-factor state without revealing the secret or
// any hashes.
func (s *Service) Status(ctx context.Context, userID string) (StatusResult, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return StatusResult{}, err
	}

	return StatusResult{
		Enabled:                user.TOTPEnabled,
		VerifiedAt:             user.TOTPVerifiedAt,
		HasPendingEnrollment:   user.HasPendingEnrollment(),
		RecoveryCodesRemaining: len(user.TOTPRecoveryCodeHashes),
	}, nil
}

// Enroll generates a fresh secret for the user and persists it sealed, with
// two-factor still disabled. Re-enrolling while a previous enrollment is
// unverified overwrites the pending secret and resets the replay watermark.
// Fails with ErrAlreadyEnabled once the account is active.
func (s *Service) Enroll(ctx context.Context, userID string) (EnrollResult, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return EnrollResult{}, err
	}
	if user.TOTPEnabled {
		return EnrollResult{}, ErrAlreadyEnabled
	}
	if user.Email == "" {
		return EnrollResult{}, ErrMissingEmail
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return EnrollResult{}, err
	}
	otpauthURL, err := totp.GetTOTPURI(totp.TOTPParams{
		Secret:      secret,
		AccountName: user.Email,
		Issuer:      s.issuer,
	})
	if err != nil {
		return EnrollResult{}, err
	}

	sealed, err := s.sealer.Seal(secret)
	if err != nil {
		return EnrollResult{}, err
	}

	if _, err := s.store.UpdateByID(ctx, user.ID, Update{
		TOTPEnabled:            Assign(false),
		TOTPSecretEnc:          Assign(sealed),
		TOTPVerifiedAt:         Clear[time.Time](),
		TOTPRecoveryCodeHashes: Clear[[]string](),
		TOTPLastUsedStep:       Clear[int64](),
	}); err != nil {
		return EnrollResult{}, err
	}

	return EnrollResult{Secret: secret, OtpauthURL: otpauthURL}, nil
}

// VerifyEnrollment activates two-factor authentication after the user proves
// possession of the freshly enrolled secret. On success it mints the initial
// batch of recovery codes, returned in plaintext exactly once.
func (s *Service) VerifyEnrollment(ctx context.Context, userID, code string, nowMs int64) ([]string, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TOTPEnabled {
		return nil, ErrAlreadyEnabled
	}
	if user.TOTPSecretEnc == nil {
		return nil, ErrNotEnrolled
	}

	secret, err := s.sealer.Unseal(*user.TOTPSecretEnc)
	if err != nil {
		return nil, err
	}

	verification, err := totp.VerifyToken(secret, code, user.TOTPLastUsedStep, nowMs)
	if err != nil {
		return nil, err
	}
	switch verification.Status {
	case totp.StatusValid:
	case totp.StatusReplay:
		return nil, ErrReplayDetected
	default:
		return nil, ErrInvalidCode
	}

	codes, err := recovery.Generate(recovery.DefaultBatchSize)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.UpdateByID(ctx, user.ID, Update{
		TOTPEnabled:            Assign(true),
		TOTPVerifiedAt:         Assign(time.UnixMilli(nowMs)),
		TOTPRecoveryCodeHashes: Assign(s.hasher.HashAll(codes)),
		TOTPLastUsedStep:       Assign(verification.MatchedStep),
	}); err != nil {
		return nil, err
	}

	return codes, nil
}

// Challenge performs routine login-time verification. A valid primary code
// advances the replay watermark; an invalid one falls back to recovery-code
// consumption. A replayed primary code fails outright without touching the
// recovery codes, so a captured code cannot silently burn one.
func (s *Service) Challenge(ctx context.Context, userID, code string, nowMs int64) (ChallengeResult, error) {
	user, err := s.requireActive(ctx, userID)
	if err != nil {
		return ChallengeResult{}, err
	}

	secret, err := s.sealer.Unseal(*user.TOTPSecretEnc)
	if err != nil {
		return ChallengeResult{}, err
	}

	verification, err := totp.VerifyToken(secret, code, user.TOTPLastUsedStep, nowMs)
	if err != nil {
		return ChallengeResult{}, err
	}

	switch verification.Status {
	case totp.StatusValid:
		if _, err := s.store.UpdateByID(ctx, user.ID, Update{
			TOTPLastUsedStep: Assign(verification.MatchedStep),
		}); err != nil {
			return ChallengeResult{}, err
		}
		return ChallengeResult{
			UsedRecoveryCode:       false,
			RecoveryCodesRemaining: len(user.TOTPRecoveryCodeHashes),
		}, nil

	case totp.StatusReplay:
		return ChallengeResult{}, ErrReplayDetected
	}

	remaining, matched := s.hasher.Consume(code, user.TOTPRecoveryCodeHashes)
	if !matched {
		return ChallengeResult{}, ErrInvalidCode
	}

	if _, err := s.store.UpdateByID(ctx, user.ID, Update{
		TOTPRecoveryCodeHashes: Assign(remaining),
	}); err != nil {
		return ChallengeResult{}, err
	}

	return ChallengeResult{
		UsedRecoveryCode:       true,
		RecoveryCodesRemaining: len(remaining),
	}, nil
}

// Disable turns two-factor authentication off after verifying either a valid
// primary code (replay-checked) or a valid recovery code. All TOTP fields are
// cleared in a single update; nothing is written when verification fails.
func (s *Service) Disable(ctx context.Context, userID, code string, nowMs int64) error {
	user, err := s.requireActive(ctx, userID)
	if err != nil {
		return err
	}

	secret, err := s.sealer.Unseal(*user.TOTPSecretEnc)
	if err != nil {
		return err
	}

	verification, err := totp.VerifyToken(secret, code, user.TOTPLastUsedStep, nowMs)
	if err != nil {
		return err
	}

	switch verification.Status {
	case totp.StatusValid:
	case totp.StatusReplay:
		return ErrReplayDetected
	default:
		if _, matched := s.hasher.Consume(code, user.TOTPRecoveryCodeHashes); !matched {
			return ErrInvalidCode
		}
	}

	_, err = s.store.UpdateByID(ctx, user.ID, Update{
		TOTPEnabled:            Assign(false),
		TOTPSecretEnc:          Clear[string](),
		TOTPVerifiedAt:         Clear[time.Time](),
		TOTPRecoveryCodeHashes: Clear[[]string](),
		TOTPLastUsedStep:       Clear[int64](),
	})
	return err
}

// RegenerateRecoveryCodes replaces the outstanding recovery codes with a
// fresh batch, invalidating every previously issued code. Callers are
// expected to gate this behind a recent-authentication check; that policy
// lives at the HTTP layer.
func (s *Service) RegenerateRecoveryCodes(ctx context.Context, userID string) ([]string, error) {
	user, err := s.requireActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	codes, err := recovery.Generate(recovery.DefaultBatchSize)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.UpdateByID(ctx, user.ID, Update{
		TOTPRecoveryCodeHashes: Assign(s.hasher.HashAll(codes)),
	}); err != nil {
		return nil, err
	}

	return codes, nil
}

func (s *Service) requireActive(ctx context.Context, userID string) (*User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.TOTPEnabled || user.TOTPSecretEnc == nil {
		return nil, ErrNotEnrolled
	}
	return user, nil
}
