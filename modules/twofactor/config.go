package twofactor

import "time"

// Config holds the HTTP module's environment-driven settings.
type Config struct {
	// Issuer is the label authenticator apps display for enrolled accounts.
	Issuer string `env:"TOTP_ISSUER" envDefault:"SecYourFlow"`

	// CodeAttempts bounds code submissions per user per window across
	// challenge, enrollment verification, and disable.
	CodeAttempts int           `env:"TOTP_CODE_ATTEMPTS" envDefault:"5"`
	CodeWindow   time.Duration `env:"TOTP_CODE_WINDOW" envDefault:"15m"`

	// QRSize is the rendered provisioning QR code size in pixels.
	QRSize int `env:"TOTP_QR_SIZE" envDefault:"256"`
}
