package reports

import (
	"context"
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

func TestPGRepoCreateStoresAnalysisJSON(t *testing.T) {
	repo, mock := newMock(t)

	report := Report{
		ID:               "report-1",
		UserID:           "user-1",
		FileName:         "bill.pdf",
		Analysis:         map[string]any{"billType": "Utility Bill"},
		TotalAmount:      "89.99",
		PotentialSavings: "15.00",
		IssuesCount:      2,
		CreatedAt:        time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO reports").
		WithArgs(
			report.ID,
			report.UserID,
			report.FileName,
			[]byte(`{"billType":"Utility Bill"}`),
			report.TotalAmount,
			report.PotentialSavings,
			report.IssuesCount,
			report.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserDecodesAnalysis(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "file_name", "analysis", "total_amount", "potential_savings", "issues_count", "created_at",
	}).AddRow("report-1", "user-1", "bill.pdf", []byte(`{"summary":"ok"}`), "50.00", "0.00", 0, now)

	mock.ExpectQuery("SELECT id, user_id, file_name, analysis").
		WithArgs("user-1", ListLimit).
		WillReturnRows(rows)

	out, err := repo.ListByUser(context.Background(), "user-1", ListLimit)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].Analysis["summary"] != "ok" {
		t.Errorf("analysis not decoded: %+v", out[0].Analysis)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteScopesToOwner(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM reports").
		WithArgs("report-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "user-1", "report-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCount(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 7 {
		t.Fatalf("Count = %d, want 7", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
