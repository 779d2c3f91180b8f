package users

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	users   map[string]Profile
	byEmail map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:   make(map[string]Profile),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, p Profile) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	key := NormalizeEmail(p.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[key]; taken {
		return Profile{}, ErrEmailInUse
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.users[p.UID] = p
	r.byEmail[key] = p.UID
	return p, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, uid string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.users[uid]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	uid, ok := r.byEmail[NormalizeEmail(email)]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return r.users[uid], nil
}

func (r *MemoryRepo) UpdatePhotoURL(ctx context.Context, uid, photoURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.users[uid]
	if !ok {
		return ErrNotFound
	}
	p.PhotoURL = photoURL
	r.users[uid] = p
	return nil
}
