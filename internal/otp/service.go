package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"billaudit-backend/internal/shared/telemetry"
)

// Service issues and verifies emailed passcodes.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Issue creates and stores a fresh six-digit code for the email. Expired
// codes are swept opportunistically on each issue; a failed sweep never
// blocks login.
func (s *Service) Issue(ctx context.Context, email string) (OTP, error) {
	if err := s.repo.DeleteExpired(ctx); err != nil {
		telemetry.Warn("otp.sweep_failed", map[string]any{"error": err.Error()})
	}

	code, err := generateCode()
	if err != nil {
		return OTP{}, err
	}
	now := time.Now().UTC()
	o := OTP{
		ID:        uuid.NewString(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(TTL),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return OTP{}, err
	}
	return o, nil
}

// Verify consumes a pending code. False means the code is wrong, already
// used, or expired.
func (s *Service) Verify(ctx context.Context, email, code string) (bool, error) {
	return s.repo.ConsumeValid(ctx, email, code)
}

// generateCode returns a uniform six-digit code, 100000 through 999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
