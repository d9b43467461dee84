package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps users in a map guarded by a mutex. The mutex plays
// the role of the unique index in the database-backed stores.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
	now     func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[models.EmailKey(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.EmailKey(user.Email)
	if _, taken := r.byEmail[key]; taken {
		return nil, common.ErrConflict
	}

	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = r.now().UTC()

	r.byID[u.ID] = u
	r.byEmail[key] = u.ID

	out := u
	return &out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	oldKey := models.EmailKey(u.Email)
	if patch.Email != nil {
		newKey := models.EmailKey(*patch.Email)
		if holder, taken := r.byEmail[newKey]; taken && holder != id {
			return nil, common.ErrConflict
		}
	}

	patch.Apply(&u)

	newKey := models.EmailKey(u.Email)
	if newKey != oldKey {
		delete(r.byEmail, oldKey)
		r.byEmail[newKey] = id
	}
	r.byID[id] = u

	out := u
	return &out, nil
}

func (r *InMemoryRepository) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byEmail, models.EmailKey(u.Email))
	delete(r.byID, id)
	return nil
}

func (r *InMemoryRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		u := u
		out = append(out, &u)
	}
	return out, nil
}
