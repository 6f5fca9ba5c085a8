// Package memory provides map-backed stores for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"registration-service/internal/domain/users"

	"github.com/google/uuid"
)

type Directory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]users.User
	byEmail map[string]uuid.UUID
}

func NewDirectory() *Directory {
	return &Directory{
		byID:    make(map[uuid.UUID]users.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (d *Directory) Create(_ context.Context, u *users.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	email := users.NormalizeEmail(u.Email)
	if _, ok := d.byEmail[email]; ok {
		return users.ErrEmailTaken
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now

	d.byID[u.ID] = *u
	d.byEmail[email] = u.ID
	return nil
}

func (d *Directory) Save(_ context.Context, u *users.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	prev, ok := d.byID[u.ID]
	if !ok {
		return users.ErrNotFound
	}
	email := users.NormalizeEmail(u.Email)
	if owner, taken := d.byEmail[email]; taken && owner != u.ID {
		return users.ErrEmailTaken
	}

	delete(d.byEmail, prev.Email)
	u.Email = email
	u.UpdatedAt = time.Now()
	d.byID[u.ID] = *u
	d.byEmail[email] = u.ID
	return nil
}

func (d *Directory) FindByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &u, nil
}

func (d *Directory) FindByEmail(_ context.Context, email string) (*users.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[users.NormalizeEmail(email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	u := d.byID[id]
	return &u, nil
}

// Len reports the number of stored users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
