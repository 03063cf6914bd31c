package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo implements Repo using Postgres. The full analysis document is stored
// as JSONB alongside the denormalized listing columns.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new report.
func (r *PGRepo) Create(ctx context.Context, report Report) error {
	const query = `
INSERT INTO reports (id, user_id, file_name, analysis, total_amount, potential_savings, issues_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	payload, err := json.Marshal(report.Analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		report.ID,
		report.UserID,
		report.FileName,
		payload,
		report.TotalAmount,
		report.PotentialSavings,
		report.IssuesCount,
		report.CreatedAt,
	)
	return err
}

// ListByUser returns a user's reports newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Report, error) {
	if limit <= 0 || limit > ListLimit {
		limit = ListLimit
	}
	const query = `
SELECT id, user_id, file_name, analysis, total_amount, potential_savings, issues_count, created_at
FROM reports
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Report, 0, limit)
	for rows.Next() {
		var report Report
		var payload []byte
		if err := rows.Scan(
			&report.ID,
			&report.UserID,
			&report.FileName,
			&payload,
			&report.TotalAmount,
			&report.PotentialSavings,
			&report.IssuesCount,
			&report.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &report.Analysis); err != nil {
				return nil, fmt.Errorf("unmarshal analysis: %w", err)
			}
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

// Delete removes a report scoped to its owner. Missing rows are a no-op.
func (r *PGRepo) Delete(ctx context.Context, userID, reportID string) error {
	const query = `DELETE FROM reports WHERE id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, query, reportID, userID)
	return err
}

// Count returns the total number of reports.
func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM reports`).Scan(&count)
	return count, err
}
