// Package postgres implements the user directory and token store on gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"registration-service/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) Create(ctx context.Context, u *users.User) error {
	u.Email = users.NormalizeEmail(u.Email)
	if err := d.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (d *Directory) Save(ctx context.Context, u *users.User) error {
	u.Email = users.NormalizeEmail(u.Email)
	res := d.db.WithContext(ctx).Model(u).Select("*").Omit("id", "created_at").Updates(u)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("save user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (d *Directory) FindByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	var u users.User
	if err := d.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err, "find user by id")
	}
	return &u, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	var u users.User
	if err := d.db.WithContext(ctx).Where("email = ?", users.NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, notFound(err, "find user by email")
	}
	return &u, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return users.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
