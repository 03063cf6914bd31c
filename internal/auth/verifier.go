package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleProfile is the identity asserted by a verified Google ID token.
type GoogleProfile struct {
	Sub   string
	Email string
	Name  string
}

// IDTokenVerifier validates a Google ID token against the app's client ID.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (GoogleProfile, error)
}

// GoogleVerifier checks tokens against Google's published keys.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

var _ IDTokenVerifier = (*GoogleVerifier)(nil)

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (GoogleProfile, error) {
	if v.clientID == "" {
		return GoogleProfile{}, errors.New("google client id not configured")
	}
	payload, err := idtoken.Validate(ctx, rawToken, v.clientID)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("validate id token: %w", err)
	}
	p := GoogleProfile{Sub: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		p.Name = name
	}
	return p, nil
}
