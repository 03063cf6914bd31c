package reports

import "time"

// Report pairs a user with one completed analysis. Created once per
// successful pipeline run, never mutated, deletable only by its owner.
// TotalAmount, PotentialSavings and IssuesCount are denormalized from the
// analysis for fast listing.
type Report struct {
	ID               string         `json:"id"`
	UserID           string         `json:"userId"`
	FileName         string         `json:"fileName"`
	Analysis         map[string]any `json:"analysis"`
	TotalAmount      string         `json:"totalAmount"`
	PotentialSavings string         `json:"potentialSavings"`
	IssuesCount      int            `json:"issuesCount"`
	CreatedAt        time.Time      `json:"createdAt"`
}
