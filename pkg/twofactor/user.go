package twofactor

import (
	"context"
	"time"
)

// User is the two-factor view of a user record. The account itself is owned
// elsewhere; this package only reads and writes the TOTP-related columns.
type User struct {
	ID    string
	Email string

	// TOTPEnabled is true only after a freshly enrolled secret has been
	// verified once. TOTPSecretEnc is always set while it is true.
	TOTPEnabled bool

	// TOTPSecretEnc is the sealed secret envelope, nil before enrollment.
	TOTPSecretEnc *string

	// TOTPVerifiedAt is the time of the last successful activation, nil
	// before the first verification.
	TOTPVerifiedAt *time.Time

	// TOTPRecoveryCodeHashes holds one hash per unconsumed recovery code.
	TOTPRecoveryCodeHashes []string

	// TOTPLastUsedStep is the step index of the most recently accepted
	// code; monotonically non-decreasing for a given secret generation.
	// Nil until the first successful verification.
	TOTPLastUsedStep *int64
}

// HasPendingEnrollment reports whether a secret has been generated but not
// yet verified.
func (u *User) HasPendingEnrollment() bool {
	return !u.TOTPEnabled && u.TOTPSecretEnc != nil
}

// Field is a tri-state partial-update value: unset fields are left untouched
// by the store, set fields overwrite, and a set field with a nil value clears
// the column.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Assign returns a Field overwriting with the given value.
func Assign[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Clear returns a Field that nulls the target.
func Clear[T any]() Field[T] {
	return Field[T]{Set: true}
}

// Update is a partial update of a user's two-factor columns.
type Update struct {
	TOTPEnabled            Field[bool]
	TOTPSecretEnc          Field[string]
	TOTPVerifiedAt         Field[time.Time]
	TOTPRecoveryCodeHashes Field[[]string]
	TOTPLastUsedStep       Field[int64]
}

// UserStore is the external user-record collaborator. Implementations must
// make each GetByID/UpdateByID pair read-then-write against the latest stored
// state: two concurrent callers must not both observe the pre-update record,
// or replay detection on the last-used step breaks.
type UserStore interface {
	// GetByID returns the user or ErrUserNotFound.
	GetByID(ctx context.Context, userID string) (*User, error)

	// UpdateByID applies the partial update and returns the updated record.
	UpdateByID(ctx context.Context, userID string, update Update) (*User, error)
}

func (u *User) apply(update Update) {
	if update.TOTPEnabled.Set {
		u.TOTPEnabled = update.TOTPEnabled.Value != nil && *update.TOTPEnabled.Value
	}
	if update.TOTPSecretEnc.Set {
		u.TOTPSecretEnc = update.TOTPSecretEnc.Value
	}
	if update.TOTPVerifiedAt.Set {
		u.TOTPVerifiedAt = update.TOTPVerifiedAt.Value
	}
	if update.TOTPRecoveryCodeHashes.Set {
		if update.TOTPRecoveryCodeHashes.Value == nil {
			u.TOTPRecoveryCodeHashes = nil
		} else {
			u.TOTPRecoveryCodeHashes = *update.TOTPRecoveryCodeHashes.Value
		}
	}
	if update.TOTPLastUsedStep.Set {
		u.TOTPLastUsedStep = update.TOTPLastUsedStep.Value
	}
}
