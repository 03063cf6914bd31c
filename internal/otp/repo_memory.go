package otp

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used in development and tests.
type MemoryRepo struct {
	mu    sync.Mutex
	codes []OTP
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

var _ Repo = (*MemoryRepo)(nil)

func (r *MemoryRepo) Create(_ context.Context, o OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, o)
	return nil
}

func (r *MemoryRepo) ConsumeValid(_ context.Context, email, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	best := -1
	for i, o := range r.codes {
		if o.Email != email || o.Code != code || o.Verified || !o.ExpiresAt.After(now) {
			continue
		}
		if best == -1 || o.CreatedAt.After(r.codes[best].CreatedAt) {
			best = i
		}
	}
	if best == -1 {
		return false, nil
	}
	r.codes[best].Verified = true
	return true, nil
}

func (r *MemoryRepo) DeleteExpired(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	kept := r.codes[:0]
	for _, o := range r.codes {
		if o.ExpiresAt.After(now) {
			kept = append(kept, o)
		}
	}
	r.codes = kept
	return nil
}
