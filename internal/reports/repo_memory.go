package reports

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores reports in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Report
	byUser map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Report),
		byUser: make(map[string][]string),
	}
}

// Create stores the report.
func (r *MemoryRepo) Create(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[report.ID] = report
	r.byUser[report.UserID] = append(r.byUser[report.UserID], report.ID)
	return nil
}

// ListByUser returns a user's reports newest first, capped at limit.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > ListLimit {
		limit = ListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Report, 0, len(r.byUser[userID]))
	for _, id := range r.byUser[userID] {
		if report, ok := r.byID[id]; ok {
			out = append(out, report)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a report scoped to its owner. Missing or not-owned ids are
// silently ignored.
func (r *MemoryRepo) Delete(ctx context.Context, userID, reportID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	report, ok := r.byID[reportID]
	if !ok || report.UserID != userID {
		return nil
	}
	delete(r.byID, reportID)
	ids := r.byUser[userID]
	for i, id := range ids {
		if id == reportID {
			r.byUser[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the total number of reports.
func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}
