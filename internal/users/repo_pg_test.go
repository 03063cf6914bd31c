package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func userRow(id, email string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "email", "name", "google_id", "role", "is_premium", "premium_plan", "status", "analysis_count", "created_at", "updated_at",
	}).AddRow(id, email, "Ada", "g-1", RoleUser, false, nil, StatusActive, 0, now, now)
}

func TestPGRepoCreateDefaultsRoleAndStatus(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			"user-1",
			"ada@example.com",
			"Ada",
			nil, // google_id empty
			RoleUser,
			false,
			nil, // premium_plan empty
			StatusActive,
			0,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := User{ID: "user-1", Email: "ada@example.com", Name: "Ada"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByEmail(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("ada@example.com").
		WillReturnRows(userRow("user-1", "ada@example.com"))

	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != "user-1" || user.GoogleID != "g-1" {
		t.Fatalf("unexpected user %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoApplyDraftBuildsPartialUpdate(t *testing.T) {
	repo, mock := newMock(t)

	premium := true
	status := StatusBlocked
	draft := UpdateDraft{IsPremium: &premium, Status: &status}

	mock.ExpectQuery("UPDATE users SET updated_at = now\\(\\), is_premium = \\$2, status = \\$3 WHERE id = \\$1 RETURNING").
		WithArgs("user-1", true, StatusBlocked).
		WillReturnRows(userRow("user-1", "ada@example.com"))

	if _, err := repo.ApplyDraft(context.Background(), "user-1", draft); err != nil {
		t.Fatalf("ApplyDraft: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoIncrementAnalysisCountUnknownUser(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE users SET analysis_count").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.IncrementAnalysisCount(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoStats(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"count", "premium", "blocked"}).AddRow(10, 3, 1))

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalUsers != 10 || stats.PremiumUsers != 3 || stats.BlockedUsers != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
