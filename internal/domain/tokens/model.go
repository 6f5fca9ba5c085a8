package tokens

import (
	"fmt"
	"time"

	"registration-service/internal/domain/users"

	"github.com/google/uuid"
)

// VerificationToken is the persisted email-verification token. One per user.
type VerificationToken struct {
	ID             uint       `gorm:"primaryKey"`
	Token          string     `gorm:"not null;uniqueIndex"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	User           users.User `gorm:"constraint:OnDelete:CASCADE"`
	ExpirationTime time.Time  `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PasswordResetToken is the persisted password-reset token. One per user.
type PasswordResetToken struct {
	ID             uint       `gorm:"primaryKey"`
	Token          string     `gorm:"not null;uniqueIndex"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	User           users.User `gorm:"constraint:OnDelete:CASCADE"`
	ExpirationTime time.Time  `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Row is implemented by the persisted token models.
type Row interface {
	Record() *Token
}

func (v *VerificationToken) Record() *Token {
	return record(KindVerification, v.Token, v.UserID, &v.User, v.ExpirationTime)
}

func (p *PasswordResetToken) Record() *Token {
	return record(KindPasswordReset, p.Token, p.UserID, &p.User, p.ExpirationTime)
}

func record(kind Kind, value string, userID uuid.UUID, u *users.User, exp time.Time) *Token {
	t := &Token{Kind: kind, Value: value, UserID: userID, ExpirationTime: exp}
	// an unloaded association comes back as the zero User
	if u.ID != uuid.Nil {
		owner := *u
		t.User = &owner
	}
	return t
}

// RowFor returns an empty model for kind, suitable as a query destination.
func RowFor(kind Kind) (Row, error) {
	switch kind {
	case KindVerification:
		return &VerificationToken{}, nil
	case KindPasswordReset:
		return &PasswordResetToken{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// RowFromToken builds the model to persist for t. The association is left
// empty so that saving the row never writes the user.
func RowFromToken(t *Token) (Row, error) {
	switch t.Kind {
	case KindVerification:
		return &VerificationToken{Token: t.Value, UserID: t.UserID, ExpirationTime: t.ExpirationTime}, nil
	case KindPasswordReset:
		return &PasswordResetToken{Token: t.Value, UserID: t.UserID, ExpirationTime: t.ExpirationTime}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, t.Kind)
	}
}
