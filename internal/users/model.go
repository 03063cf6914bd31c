package users

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// User is a registered account, created on first Google or OTP login.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	GoogleID      string    `json:"-"`
	Role          string    `json:"role"`
	IsPremium     bool      `json:"isPremium"`
	PremiumPlan   string    `json:"premiumPlan,omitempty"`
	Status        string    `json:"status"`
	AnalysisCount int       `json:"analysisCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UpdateDraft is the admin console's edit draft: an explicit value object
// distinct from the persisted record, committed via a single update call.
// Nil fields are left untouched.
type UpdateDraft struct {
	Name        *string `json:"name"`
	Role        *string `json:"role"`
	IsPremium   *bool   `json:"isPremium"`
	PremiumPlan *string `json:"premiumPlan"`
	Status      *string `json:"status"`
}

// Empty reports whether the draft changes nothing.
func (d UpdateDraft) Empty() bool {
	return d.Name == nil && d.Role == nil && d.IsPremium == nil && d.PremiumPlan == nil && d.Status == nil
}

// Stats are the admin dashboard aggregates over users.
type Stats struct {
	TotalUsers   int `json:"totalUsers"`
	PremiumUsers int `json:"premiumUsers"`
	BlockedUsers int `json:"blockedUsers"`
}
