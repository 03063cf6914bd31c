package otp

import "context"

// Repo persists one-time passcodes.
type Repo interface {
	// Create stores a freshly issued code.
	Create(ctx context.Context, o OTP) error
	// ConsumeValid marks the newest unverified, unexpired code matching
	// email+code as verified. It reports false when no such code exists.
	ConsumeValid(ctx context.Context, email, code string) (bool, error)
	// DeleteExpired drops codes whose expiry has passed.
	DeleteExpired(ctx context.Context) error
}
