package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kuba1e/food-delivery/internal/common"
	"github.com/kuba1e/food-delivery/internal/ids"
)

// MemoryRepository is a process-local Directory for development and tests.
// It enforces the same uniqueness rules as the Postgres schema.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
	byPhone map[int64]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
		byPhone: make(map[int64]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) FindByPhone(ctx context.Context, phone int64) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[phone]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.WithMessage(common.ErrConflict, EmailTakenMessage)
	}
	if _, ok := r.byPhone[user.PhoneNumber]; ok {
		return nil, common.WithMessage(common.ErrConflict, PhoneTakenMessage)
	}

	u := clone(user)
	if u.ID == "" {
		u.ID = ids.New()
	}
	if u.Role == "" {
		u.Role = common.DefaultUserRole
	}
	u.CreatedAt = r.now().UTC()
	u.UpdatedAt = u.CreatedAt

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	r.byPhone[u.PhoneNumber] = u.ID

	return clone(u), nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	result := make([]*User, 0, len(r.byID))
	for _, u := range r.byID {
		result = append(result, clone(u))
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func clone(u *User) *User {
	c := *u
	return &c
}
