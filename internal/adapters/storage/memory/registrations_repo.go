package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"double-paws/internal/domain/registration"
)

type registrationRepo struct {
	mu   sync.RWMutex
	byID map[string]registration.Wizard
}

func NewRegistrationRepo() registration.Repository {
	return &registrationRepo{
		byID: make(map[string]registration.Wizard),
	}
}

// Se guardan copias: el caller puede mutar su Wizard sin tocar el repo.
func (r *registrationRepo) Create(ctx context.Context, w registration.Wizard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(w.ID) == "" {
		return errors.New("registration id required")
	}
	if _, exists := r.byID[w.ID]; exists {
		return errors.New("registration already exists")
	}
	r.byID[w.ID] = w.Clone()
	return nil
}

func (r *registrationRepo) Update(ctx context.Context, w registration.Wizard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[w.ID]; !exists {
		return registration.ErrNotFound
	}
	r.byID[w.ID] = w.Clone()
	return nil
}

func (r *registrationRepo) Get(ctx context.Context, id string) (registration.Wizard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.byID[id]
	if !ok {
		return registration.Wizard{}, registration.ErrNotFound
	}
	return w.Clone(), nil
}

func (r *registrationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

func (r *registrationRepo) DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, w := range r.byID {
		if w.UpdatedAt.Before(cutoff) {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
