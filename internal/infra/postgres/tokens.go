package postgres

import (
	"context"
	"errors"
	"fmt"

	"registration-service/internal/domain/tokens"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenStore keeps verification and password-reset tokens in their own
// tables. Both tables carry a unique user_id, so Save is an upsert on it.
type TokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Save(ctx context.Context, t *tokens.Token) error {
	row, err := tokens.RowFromToken(t)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "expiration_time", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert %s token: %w", t.Kind, err)
	}
	return nil
}

func (s *TokenStore) FindByToken(ctx context.Context, kind tokens.Kind, value string) (*tokens.Token, error) {
	row, err := tokens.RowFor(kind)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Preload("User").Where("token = ?", value).First(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, tokens.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s token: %w", kind, err)
	}
	return row.Record(), nil
}

func (s *TokenStore) Delete(ctx context.Context, t *tokens.Token) error {
	row, err := tokens.RowFor(t.Kind)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Where("token = ?", t.Value).Delete(row)
	if res.Error != nil {
		return fmt.Errorf("delete %s token: %w", t.Kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return tokens.ErrNotFound
	}
	return nil
}
