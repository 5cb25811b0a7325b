package recovery

import "errors"

var (
	ErrHashKeyNotConfigured = errors.New("recovery code hash key not configured")
	ErrInvalidCodeCount     = errors.New("invalid recovery code count, must be greater than 0")
	ErrFailedToGenerateCode = errors.New("failed to generate recovery code")
)
