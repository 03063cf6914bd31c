package otp

import "time"

// Codes stay valid for ten minutes, as promised in the email.
const TTL = 10 * time.Minute

// OTP is one emailed passcode. A code is consumable while unverified and
// unexpired; verification flips the flag so it cannot be replayed.
type OTP struct {
	ID        string
	Email     string
	Code      string
	ExpiresAt time.Time
	Verified  bool
	CreatedAt time.Time
}
