package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

// Repo defines persistence operations for users.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByGoogleID(ctx context.Context, googleID string) (User, error)
	List(ctx context.Context) ([]User, error)
	ApplyDraft(ctx context.Context, userID string, draft UpdateDraft) (User, error)
	Delete(ctx context.Context, userID string) error
	IncrementAnalysisCount(ctx context.Context, userID string) error
	Stats(ctx context.Context) (Stats, error)
}
