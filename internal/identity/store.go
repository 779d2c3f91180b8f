package identity

import (
	"context"
	"sync"

	"resume-scorer/internal/users"
)

// Credential is the sign-in material kept for one account. An account made
// through Google has no password hash.
type Credential struct {
	PasswordHash string
	GoogleSub    string
}

// Store persists accounts. Register writes the profile and its credential
// together.
type Store interface {
	Register(ctx context.Context, p users.Profile, cred Credential) (users.Profile, error)
	CredentialByEmail(ctx context.Context, email string) (users.Profile, Credential, error)
	ProfileByGoogleSub(ctx context.Context, sub string) (users.Profile, error)
	LinkGoogle(ctx context.Context, uid, sub string) error
}

// MemoryStore keeps credentials beside a users.MemoryRepo.
type MemoryStore struct {
	mu       sync.Mutex
	profiles *users.MemoryRepo
	creds    map[string]Credential
	bySub    map[string]string
}

func NewMemoryStore(profiles *users.MemoryRepo) *MemoryStore {
	return &MemoryStore{
		profiles: profiles,
		creds:    make(map[string]Credential),
		bySub:    make(map[string]string),
	}
}

func (s *MemoryStore) Register(ctx context.Context, p users.Profile, cred Credential) (users.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created, err := s.profiles.Create(ctx, p)
	if err != nil {
		return users.Profile{}, err
	}
	s.creds[created.UID] = cred
	if cred.GoogleSub != "" {
		s.bySub[cred.GoogleSub] = created.UID
	}
	return created, nil
}

func (s *MemoryStore) CredentialByEmail(ctx context.Context, email string) (users.Profile, Credential, error) {
	p, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return users.Profile{}, Credential{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[p.UID]
	if !ok {
		return users.Profile{}, Credential{}, users.ErrNotFound
	}
	return p, cred, nil
}

func (s *MemoryStore) ProfileByGoogleSub(ctx context.Context, sub string) (users.Profile, error) {
	s.mu.Lock()
	uid, ok := s.bySub[sub]
	s.mu.Unlock()
	if !ok {
		return users.Profile{}, users.ErrNotFound
	}
	return s.profiles.GetByID(ctx, uid)
}

func (s *MemoryStore) LinkGoogle(ctx context.Context, uid, sub string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[uid]
	if !ok {
		return users.ErrNotFound
	}
	cred.GoogleSub = sub
	s.creds[uid] = cred
	s.bySub[sub] = uid
	return nil
}
