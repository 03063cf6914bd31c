package reports

import "context"

// ListLimit caps how many reports a listing returns.
const ListLimit = 50

// Repo defines persistence operations for reports.
type Repo interface {
	Create(ctx context.Context, report Report) error
	// ListByUser returns the caller's reports newest first, at most limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]Report, error)
	// Delete removes a report only if it is owned by userID. Deleting a
	// missing or not-owned id is a silent no-op, not an error.
	Delete(ctx context.Context, userID, reportID string) error
	// Count returns the total number of reports across all users.
	Count(ctx context.Context) (int, error)
}
