package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Service contains account lookup and first-login provisioning logic.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// FindOrCreateFromGoogle resolves a verified Google identity to a local user,
// creating the account on first login. Matching prefers the Google subject id
// and falls back to the email, so OTP-first users can later link Google.
func (s *Service) FindOrCreateFromGoogle(ctx context.Context, googleID, email, name string) (User, error) {
	if strings.TrimSpace(googleID) == "" || strings.TrimSpace(email) == "" {
		return User{}, errors.New("google id and email are required")
	}

	if user, err := s.Repo.GetByGoogleID(ctx, googleID); err == nil {
		return user, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	if user, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return user, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	user := User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		GoogleID: googleID,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

// FindOrCreateFromEmail resolves an OTP-verified email to a local user,
// creating the account on first login with the mailbox name as display name.
func (s *Service) FindOrCreateFromEmail(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, errors.New("email is required")
	}

	if user, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return user, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	user := User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

// GetByID returns a user by id.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}
