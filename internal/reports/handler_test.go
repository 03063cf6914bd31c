package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(repo Repo, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api")
	g.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	NewHandler(repo).RegisterRoutes(g)
	return r
}

func TestListReturnsOwnReports(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, Report{ID: "r1", UserID: "u1", FileName: "a.pdf", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, Report{ID: "r2", UserID: "u2", FileName: "b.pdf", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := newTestRouter(repo, "u1")
	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool     `json:"success"`
		Reports []Report `json:"reports"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Reports) != 1 || resp.Reports[0].ID != "r1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestDeleteForeignReportIsSilentNoOp(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, Report{ID: "r1", UserID: "u2", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := newTestRouter(repo, "u1")
	req := httptest.NewRequest(http.MethodDelete, "/api/reports/r1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if out, _ := repo.ListByUser(ctx, "u2", ListLimit); len(out) != 1 {
		t.Fatalf("foreign report should survive, got %d", len(out))
	}
}
