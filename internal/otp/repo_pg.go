package otp

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PGRepo stores passcodes in Postgres.
type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

var _ Repo = (*PGRepo)(nil)

func (r *PGRepo) Create(ctx context.Context, o OTP) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otps (id, email, code, expires_at, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.Email, o.Code, o.ExpiresAt, o.Verified, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

func (r *PGRepo) ConsumeValid(ctx context.Context, email, code string) (bool, error) {
	// Consume only the newest matching code so a stale resend cannot be used
	// after a fresh one was issued.
	res, err := r.db.ExecContext(ctx, `
		UPDATE otps SET verified = TRUE
		WHERE id = (
			SELECT id FROM otps
			WHERE email = $1 AND code = $2 AND verified = FALSE AND expires_at > $3
			ORDER BY created_at DESC
			LIMIT 1
		)`,
		email, code, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return n > 0, nil
}

func (r *PGRepo) DeleteExpired(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE expires_at <= $1`, time.Now().UTC()); err != nil {
		return fmt.Errorf("delete expired otps: %w", err)
	}
	return nil
}
