package tokens

import (
	"testing"
	"time"

	"registration-service/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowFromToken_RoundTripsThroughRecord(t *testing.T) {
	exp := time.Date(2024, 3, 1, 12, 10, 0, 0, time.UTC)
	id := uuid.New()

	for _, kind := range []Kind{KindVerification, KindPasswordReset} {
		row, err := RowFromToken(&Token{Kind: kind, Value: "v", UserID: id, ExpirationTime: exp})
		require.NoError(t, err)

		got := row.Record()
		assert.Equal(t, kind, got.Kind)
		assert.Equal(t, "v", got.Value)
		assert.Equal(t, id, got.UserID)
		assert.Equal(t, exp, got.ExpirationTime)
		assert.Nil(t, got.User, "unloaded association must not surface as a user")
	}
}

func TestRecord_CarriesPreloadedUser(t *testing.T) {
	id := uuid.New()
	row := &VerificationToken{Token: "v", UserID: id, User: users.User{ID: id, Email: "a@b.c"}}

	got := row.Record()
	require.NotNil(t, got.User)
	assert.Equal(t, "a@b.c", got.User.Email)
}

func TestRowFor_UnknownKind(t *testing.T) {
	_, err := RowFor(Kind(9))
	assert.ErrorIs(t, err, ErrUnknownKind)

	row, err := RowFor(KindPasswordReset)
	require.NoError(t, err)
	assert.IsType(t, &PasswordResetToken{}, row)
}

func TestToken_Expired(t *testing.T) {
	now := time.Now()
	tok := &Token{ExpirationTime: now}
	assert.True(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(time.Second)))
	assert.False(t, tok.Expired(now.Add(-time.Second)))
}
