package totp

import (
	"crypto/subtle"
	"fmt"
)

// Status classifies the outcome of a code verification.
type Status int

const (
	// StatusInvalid means the code matched no step in the accepted window,
	// or was not a well-formed 6-digit string after normalization.
	StatusInvalid Status = iota
	// StatusValid means the code matched a step strictly after the last
	// accepted one.
	StatusValid
	// StatusReplay means the code matched a step that was already consumed.
	StatusReplay
)

// verifyDeltas is the order in which window offsets are tried. The current
// step is preferred; the tie-break must stay deterministic because MatchedStep
// becomes the stored replay watermark.
var verifyDeltas = [...]int64{0, -1, 1}

// Verification is the outcome of VerifyToken. MatchedStep is meaningful only
// for StatusValid and StatusReplay.
type Verification struct {
	Status      Status
	MatchedStep int64
}

// VerifyToken checks a submitted code against the secret for the time step
// containing epochMs, accepting one adjacent step in either direction to
// tolerate clock skew without widening the replay surface.
//
// lastUsedStep is the step index of the most recently accepted code, or nil
// if no code has been accepted for this secret yet. A match at or before that
// step is reported as StatusReplay, never StatusValid.
func VerifyToken(secret, code string, lastUsedStep *int64, epochMs int64) (Verification, error) {
	key, err := decodeSecret(secret)
	if err != nil {
		return Verification{}, err
	}

	normalized, ok := NormalizeCode(code)
	if !ok {
		return Verification{Status: StatusInvalid}, nil
	}

	currentStep := StepAt(epochMs)
	for _, delta := range verifyDeltas {
		step := currentStep + delta
		expected := fmt.Sprintf("%0*d", DefaultDigits, GenerateHOTP(key, step, DefaultDigits))
		if subtle.ConstantTimeCompare([]byte(expected), []byte(normalized)) != 1 {
			continue
		}

		if lastUsedStep != nil && step <= *lastUsedStep {
			return Verification{Status: StatusReplay, MatchedStep: step}, nil
		}
		return Verification{Status: StatusValid, MatchedStep: step}, nil
	}

	return Verification{Status: StatusInvalid}, nil
}
