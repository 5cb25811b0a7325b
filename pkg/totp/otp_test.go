package totp_test

import (
	"encoding/base32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secyourflow/authkit/pkg/totp"
)

func TestGenerateSecretKey(t *testing.T) {
	t.Parallel()

	secret, err := totp.GenerateSecretKey()
	require.NoError(t, err)

	// 20 random bytes encode to 32 Base32 characters without padding.
	assert.Len(t, secret, 32)
	assert.Regexp(t, totp.ValidateSecretKeyRegex, secret)
	assert.NotContains(t, secret, "=")

	other, err := totp.GenerateSecretKey()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestTOTPParamsValidate(t *testing.T) {
	t.Parallel()

	valid := totp.TOTPParams{
		Secret:      "JBSWY3DPEHPK3PXP",
		AccountName: "user@example.com",
		Issuer:      "SecYourFlow",
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Secret = ""
		assert.ErrorIs(t, p.Validate(), totp.ErrMissingSecret)
	})

	t.Run("invalid secret", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Secret = "not-base32!"
		assert.ErrorIs(t, p.Validate(), totp.ErrInvalidSecret)
	})

	t.Run("missing account name", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.AccountName = ""
		assert.ErrorIs(t, p.Validate(), totp.ErrMissingAccountName)
	})

	t.Run("missing issuer", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Issuer = ""
		assert.ErrorIs(t, p.Validate(), totp.ErrMissingIssuer)
	})
}

func TestGetTOTPURI(t *testing.T) {
	t.Parallel()

	t.Run("standard params", func(t *testing.T) {
		t.Parallel()
		uri, err := totp.GetTOTPURI(totp.TOTPParams{
			Secret:      "JBSWY3DPEHPK3PXP",
			AccountName: "user@example.com",
			Issuer:      "SecYourFlow",
		})
		require.NoError(t, err)
		assert.Equal(t,
			"otpauth://totp/SecYourFlow:user@example.com?algorithm=SHA1&digits=6&issuer=SecYourFlow&period=30&secret=JBSWY3DPEHPK3PXP",
			uri)
	})

	t.Run("issuer with spaces is escaped in label", func(t *testing.T) {
		t.Parallel()
		uri, err := totp.GetTOTPURI(totp.TOTPParams{
			Secret:      "JBSWY3DPEHPK3PXP",
			AccountName: "user@example.com",
			Issuer:      "Sec Your Flow",
		})
		require.NoError(t, err)
		assert.Contains(t, uri, "otpauth://totp/Sec%20Your%20Flow:user@example.com?")
		assert.Contains(t, uri, "issuer=Sec+Your+Flow")
	})

	t.Run("invalid params rejected", func(t *testing.T) {
		t.Parallel()
		_, err := totp.GetTOTPURI(totp.TOTPParams{AccountName: "user@example.com", Issuer: "X"})
		assert.ErrorIs(t, err, totp.ErrMissingSecret)
	})
}

func TestStepAt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), totp.StepAt(0))
	assert.Equal(t, int64(0), totp.StepAt(29_999))
	assert.Equal(t, int64(1), totp.StepAt(30_000))
	assert.Equal(t, int64(1), totp.StepAt(59_999))
	assert.Equal(t, int64(2), totp.StepAt(60_000))
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"123456", "123456", true},
		{" 123456 ", "123456", true},
		{"123 456", "123456", true},
		{"\t12 34 56\n", "123456", true},
		{"12345", "12345", false},
		{"1234567", "1234567", false},
		{"12345a", "12345a", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := totp.NormalizeCode(tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
	}
}

func TestGenerateTokenAt(t *testing.T) {
	t.Parallel()

	const secret = "JBSWY3DPEHPK3PXP"

	t.Run("deterministic within a step", func(t *testing.T) {
		t.Parallel()
		first, err := totp.GenerateTokenAt(secret, 1_000_000)
		require.NoError(t, err)
		second, err := totp.GenerateTokenAt(secret, 1_000_000+29_000)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, first, 6)
	})

	t.Run("invalid secret", func(t *testing.T) {
		t.Parallel()
		_, err := totp.GenerateTokenAt("not-base32!", 0)
		assert.ErrorIs(t, err, totp.ErrInvalidSecret)
	})
}

func TestGenerateHOTP(t *testing.T) {
	t.Parallel()

	// RFC 4226 Appendix D test vectors for the 20-byte ASCII key
	// "12345678901234567890".
	key := []byte("12345678901234567890")
	expected := []int{755224, 287082, 359152, 969429, 338314, 254676, 287922, 162583, 399871, 520489}

	for counter, want := range expected {
		assert.Equal(t, want, totp.GenerateHOTP(key, int64(counter), 6), "counter %d", counter)
	}
}

func TestGenerateTokenAtMatchesRFCVectors(t *testing.T) {
	t.Parallel()

	// RFC 6238 uses the same key; encode it so the string API can consume it.
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString([]byte("12345678901234567890"))

	// T=59s is the first RFC 6238 test time, step 1. The 6-digit truncation of
	// the 8-digit vector 94287082 is 287082.
	code, err := totp.GenerateTokenAt(secret, 59_000)
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}
