package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, name, google_id, role, is_premium, premium_plan, status, analysis_count, created_at, updated_at`

// Create inserts a new user.
func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, name, google_id, role, is_premium, premium_plan, status, analysis_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	role := user.Role
	if role == "" {
		role = RoleUser
	}
	status := user.Status
	if status == "" {
		status = StatusActive
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		nullableString(user.Name),
		nullableString(user.GoogleID),
		role,
		user.IsPremium,
		nullableString(user.PremiumPlan),
		status,
		user.AnalysisCount,
		createdAt,
		createdAt,
	)
	return err
}

// GetByID returns a user by id.
func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getWhere(ctx, "id = $1", userID)
}

// GetByEmail returns a user by email.
func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

// GetByGoogleID returns a user by Google subject id.
func (r *PGRepo) GetByGoogleID(ctx context.Context, googleID string) (User, error) {
	return r.getWhere(ctx, "google_id = $1", googleID)
}

func (r *PGRepo) getWhere(ctx context.Context, where string, arg any) (User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s LIMIT 1`, userColumns, where)
	row := r.DB.QueryRowContext(ctx, query, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// List returns all users, newest first.
func (r *PGRepo) List(ctx context.Context) ([]User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns)
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// ApplyDraft commits an admin edit draft in a single update and returns the
// updated record.
func (r *PGRepo) ApplyDraft(ctx context.Context, userID string, draft UpdateDraft) (User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{userID}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if draft.Name != nil {
		appendSet("name", *draft.Name)
	}
	if draft.Role != nil {
		appendSet("role", *draft.Role)
	}
	if draft.IsPremium != nil {
		appendSet("is_premium", *draft.IsPremium)
	}
	if draft.PremiumPlan != nil {
		appendSet("premium_plan", nullableString(*draft.PremiumPlan))
	}
	if draft.Status != nil {
		appendSet("status", *draft.Status)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`, strings.Join(sets, ", "), userColumns)
	row := r.DB.QueryRowContext(ctx, query, args...)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// Delete removes a user.
func (r *PGRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

// IncrementAnalysisCount bumps the user's analysis counter by exactly one.
func (r *PGRepo) IncrementAnalysisCount(ctx context.Context, userID string) error {
	const query = `UPDATE users SET analysis_count = analysis_count + 1, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns the admin dashboard aggregates.
func (r *PGRepo) Stats(ctx context.Context) (Stats, error) {
	const query = `
SELECT
  count(*),
  count(*) FILTER (WHERE is_premium),
  count(*) FILTER (WHERE status = 'blocked')
FROM users`
	var stats Stats
	err := r.DB.QueryRowContext(ctx, query).Scan(&stats.TotalUsers, &stats.PremiumUsers, &stats.BlockedUsers)
	return stats, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var name sql.NullString
	var googleID sql.NullString
	var premiumPlan sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&name,
		&googleID,
		&user.Role,
		&user.IsPremium,
		&premiumPlan,
		&user.Status,
		&user.AnalysisCount,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return User{}, err
	}
	if name.Valid {
		user.Name = name.String
	}
	if googleID.Valid {
		user.GoogleID = googleID.String
	}
	if premiumPlan.Valid {
		user.PremiumPlan = premiumPlan.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = user.CreatedAt
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
