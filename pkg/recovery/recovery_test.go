package recovery_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secyourflow/authkit/pkg/recovery"
)

var codeFormat = regexp.MustCompile(`^[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{5}-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{5}$`)

func newHasher(t *testing.T) *recovery.Hasher {
	t.Helper()
	hasher, err := recovery.NewHasher([]byte("recovery-hash-test-key"))
	require.NoError(t, err)
	return hasher
}

func TestNewHasher(t *testing.T) {
	t.Parallel()

	_, err := recovery.NewHasher(nil)
	assert.ErrorIs(t, err, recovery.ErrHashKeyNotConfigured)

	hasher, err := recovery.NewHasher([]byte("key"))
	require.NoError(t, err)
	assert.NotNil(t, hasher)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("format and count", func(t *testing.T) {
		t.Parallel()
		codes, err := recovery.Generate(recovery.DefaultBatchSize)
		require.NoError(t, err)
		require.Len(t, codes, recovery.DefaultBatchSize)

		for _, code := range codes {
			assert.Regexp(t, codeFormat, code)
			// Ambiguous glyphs are excluded from the alphabet.
			assert.NotContains(t, code, "0")
			assert.NotContains(t, code, "O")
			assert.NotContains(t, code, "1")
			assert.NotContains(t, code, "I")
			assert.NotContains(t, code, "L")
		}
	})

	t.Run("codes are unique within a batch", func(t *testing.T) {
		t.Parallel()
		codes, err := recovery.Generate(100)
		require.NoError(t, err)

		seen := make(map[string]struct{}, len(codes))
		for _, code := range codes {
			_, dup := seen[code]
			assert.False(t, dup, "duplicate code %s", code)
			seen[code] = struct{}{}
		}
	})

	t.Run("invalid count", func(t *testing.T) {
		t.Parallel()
		_, err := recovery.Generate(0)
		assert.ErrorIs(t, err, recovery.ErrInvalidCodeCount)
		_, err = recovery.Generate(-3)
		assert.ErrorIs(t, err, recovery.ErrInvalidCodeCount)
	})
}

func TestHash(t *testing.T) {
	t.Parallel()
	hasher := newHasher(t)

	t.Run("deterministic hex output", func(t *testing.T) {
		t.Parallel()
		h := hasher.Hash("ABCDE-23456")
		assert.Regexp(t, `^[a-f0-9]{64}$`, h)
		assert.Equal(t, h, hasher.Hash("ABCDE-23456"))
	})

	t.Run("normalization collapses presentation variants", func(t *testing.T) {
		t.Parallel()
		want := hasher.Hash("ABCDE-23456")
		assert.Equal(t, want, hasher.Hash("abcde-23456"))
		assert.Equal(t, want, hasher.Hash("ABCDE 23456"))
		assert.Equal(t, want, hasher.Hash("  abcde23456  "))
	})

	t.Run("key separation", func(t *testing.T) {
		t.Parallel()
		other, err := recovery.NewHasher([]byte("a different key"))
		require.NoError(t, err)
		assert.NotEqual(t, hasher.Hash("ABCDE-23456"), other.Hash("ABCDE-23456"))
	})
}

func TestHashAll(t *testing.T) {
	t.Parallel()
	hasher := newHasher(t)

	codes := []string{"ABCDE-23456", "FGHJK-78923", "MNPQR-STUVW"}
	hashes := hasher.HashAll(codes)
	require.Len(t, hashes, len(codes))
	for i, code := range codes {
		assert.Equal(t, hasher.Hash(code), hashes[i])
	}
}

func TestConsume(t *testing.T) {
	t.Parallel()
	hasher := newHasher(t)

	codes, err := recovery.Generate(5)
	require.NoError(t, err)
	hashes := hasher.HashAll(codes)

	t.Run("removes exactly the matched entry", func(t *testing.T) {
		t.Parallel()
		remaining, matched := hasher.Consume(codes[2], hashes)
		require.True(t, matched)
		require.Len(t, remaining, 4)
		assert.NotContains(t, remaining, hasher.Hash(codes[2]))
		for i, code := range codes {
			if i == 2 {
				continue
			}
			assert.Contains(t, remaining, hasher.Hash(code))
		}
	})

	t.Run("unknown code leaves the list untouched", func(t *testing.T) {
		t.Parallel()
		remaining, matched := hasher.Consume("ZZZZZ-ZZZZZ", hashes)
		assert.False(t, matched)
		assert.Equal(t, hashes, remaining)
	})

	t.Run("consumed code cannot be reused", func(t *testing.T) {
		t.Parallel()
		remaining, matched := hasher.Consume(codes[0], hashes)
		require.True(t, matched)

		_, matched = hasher.Consume(codes[0], remaining)
		assert.False(t, matched)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		remaining, matched := hasher.Consume(codes[0], nil)
		assert.False(t, matched)
		assert.Empty(t, remaining)
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		t.Parallel()
		remaining, matched := hasher.Consume(strings.ToLower(codes[1]), hashes)
		assert.True(t, matched)
		assert.Len(t, remaining, 4)
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  string
	}{
		{"ABCDE-23456", "ABCDE23456"},
		{"abcde-23456", "ABCDE23456"},
		{" ab cd e-234 56 ", "ABCDE23456"},
		{"a_b/c.d,e", "ABCDE"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, recovery.Normalize(tc.input), "input %q", tc.input)
	}
}

func TestCoerceHashes(t *testing.T) {
	t.Parallel()

	valid := strings.Repeat("ab", 32)

	t.Run("slice of any from jsonb", func(t *testing.T) {
		t.Parallel()
		got := recovery.CoerceHashes([]any{valid, 42, "not-a-hash", strings.ToUpper(valid)})
		assert.Equal(t, []string{valid, valid}, got)
	})

	t.Run("typed string slice", func(t *testing.T) {
		t.Parallel()
		got := recovery.CoerceHashes([]string{valid, "short"})
		assert.Equal(t, []string{valid}, got)
	})

	t.Run("unsupported value", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, recovery.CoerceHashes("just a string"))
		assert.Nil(t, recovery.CoerceHashes(nil))
		assert.Nil(t, recovery.CoerceHashes(7))
	})
}
