package tokens

import (
	"time"

	"registration-service/internal/domain/users"

	"github.com/google/uuid"
)

// ExpirationWindow is how long a freshly issued or rotated token stays valid.
const ExpirationWindow = 10 * time.Minute

// Token is the store-independent view of a verification or password-reset
// token. User may be nil when the backing store cannot preload it.
type Token struct {
	Kind           Kind
	Value          string
	UserID         uuid.UUID
	User           *users.User
	ExpirationTime time.Time
}

// Expired reports whether no time remains at now. Zero remaining counts as
// expired.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpirationTime.Sub(now) <= 0
}
