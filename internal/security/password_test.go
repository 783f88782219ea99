package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestEncoder(t *testing.T) *PasswordEncoder {
	t.Helper()
	encoder, err := NewPasswordEncoder(bcrypt.MinCost)
	require.NoError(t, err)
	return encoder
}

func TestPasswordEncoder_RoundTrip(t *testing.T) {
	encoder := newTestEncoder(t)

	passwords := []string{"1234", "p1", "P@ssw0rd!", "명륜이 비밀번호", " spaces ", "~!@#$%^&*()_+{}|:\"<>?"}
	for _, raw := range passwords {
		hash, err := encoder.Hash(raw)
		require.NoError(t, err)

		assert.NotEqual(t, raw, hash)
		assert.True(t, encoder.Matches(raw, hash), raw)
		assert.False(t, encoder.Matches(raw+"x", hash), raw)
		assert.False(t, encoder.Matches("", hash), raw)
	}
}

func TestPasswordEncoder_SaltPerCall(t *testing.T) {
	encoder := newTestEncoder(t)

	first, err := encoder.Hash("1234")
	require.NoError(t, err)
	second, err := encoder.Hash("1234")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, encoder.Matches("1234", first))
	assert.True(t, encoder.Matches("1234", second))
}

func TestPasswordEncoder_MalformedHashDoesNotMatch(t *testing.T) {
	encoder := newTestEncoder(t)

	for _, hash := range []string{"", "plain-text", "$2a$10$short", "$2a$99$" + "x"} {
		assert.NotPanics(t, func() {
			assert.False(t, encoder.Matches("1234", hash))
		})
	}
}

func TestNewPasswordEncoder_InvalidCost(t *testing.T) {
	_, err := NewPasswordEncoder(bcrypt.MaxCost + 1)
	assert.Error(t, err)

	_, err = NewPasswordEncoder(0)
	assert.Error(t, err)
}
