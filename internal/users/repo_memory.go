package users

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores users in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]User
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]User)}
}

// Create stores the user.
func (r *MemoryRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	if user.Status == "" {
		user.Status = StatusActive
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = user
	return nil
}

// GetByID returns a user by id.
func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

// GetByEmail returns a user by email.
func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.find(ctx, func(u User) bool { return u.Email == email })
}

// GetByGoogleID returns a user by Google subject id.
func (r *MemoryRepo) GetByGoogleID(ctx context.Context, googleID string) (User, error) {
	if googleID == "" {
		return User{}, ErrNotFound
	}
	return r.find(ctx, func(u User) bool { return u.GoogleID == googleID })
}

func (r *MemoryRepo) find(ctx context.Context, match func(User) bool) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.byID {
		if match(user) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

// List returns all users, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.byID))
	for _, user := range r.byID {
		out = append(out, user)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ApplyDraft commits an edit draft and returns the updated record.
func (r *MemoryRepo) ApplyDraft(ctx context.Context, userID string, draft UpdateDraft) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	if draft.Name != nil {
		user.Name = *draft.Name
	}
	if draft.Role != nil {
		user.Role = *draft.Role
	}
	if draft.IsPremium != nil {
		user.IsPremium = *draft.IsPremium
	}
	if draft.PremiumPlan != nil {
		user.PremiumPlan = *draft.PremiumPlan
	}
	if draft.Status != nil {
		user.Status = *draft.Status
	}
	user.UpdatedAt = time.Now().UTC()
	r.byID[userID] = user
	return user, nil
}

// Delete removes a user. Missing ids are a no-op.
func (r *MemoryRepo) Delete(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, userID)
	return nil
}

// IncrementAnalysisCount bumps the user's analysis counter by exactly one.
func (r *MemoryRepo) IncrementAnalysisCount(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return ErrNotFound
	}
	user.AnalysisCount++
	user.UpdatedAt = time.Now().UTC()
	r.byID[userID] = user
	return nil
}

// Stats returns the admin dashboard aggregates.
func (r *MemoryRepo) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stats Stats
	for _, user := range r.byID {
		stats.TotalUsers++
		if user.IsPremium {
			stats.PremiumUsers++
		}
		if user.Status == StatusBlocked {
			stats.BlockedUsers++
		}
	}
	return stats, nil
}
