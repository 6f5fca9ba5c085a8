package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewBcrypt_RejectsOutOfRangeCost(t *testing.T) {
	_, err := NewBcrypt(bcrypt.MinCost - 1)
	assert.Error(t, err)

	_, err = NewBcrypt(bcrypt.MaxCost + 1)
	assert.Error(t, err)

	h, err := NewBcrypt(DefaultCost)
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, h.cost)
}

func TestBcrypt_HashAndVerify(t *testing.T) {
	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	digest, err := h.Hash("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", digest)
	assert.True(t, h.Verify("s3cret-pass", digest))
	assert.False(t, h.Verify("wrong-pass", digest))
	assert.False(t, h.Verify("s3cret-pass", ""))
}

func TestBcrypt_SaltsEachHash(t *testing.T) {
	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same", a))
	assert.True(t, h.Verify("same", b))
}

func TestBcrypt_EncodesCost(t *testing.T) {
	h, err := NewBcrypt(bcrypt.MinCost + 1)
	require.NoError(t, err)

	digest, err := h.Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestBcrypt_RejectsOverlongPassword(t *testing.T) {
	h, err := NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", MaxLength+1))
	assert.ErrorIs(t, err, ErrTooLong)

	_, err = h.Hash(strings.Repeat("a", MaxLength))
	assert.NoError(t, err)
}
