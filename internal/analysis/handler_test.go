package analysis

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"billaudit-backend/internal/reports"
	localstore "billaudit-backend/internal/shared/storage/object/local"
)

func newHandlerRouter(t *testing.T, model *fakeLLM) (*gin.Engine, *reports.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := reports.NewMemoryRepo()
	store := localstore.New(t.TempDir())
	svc := &Service{Store: store, LLM: model, Reports: repo, Usage: &countingUsage{}}

	r := gin.New()
	g := r.Group("/api")
	g.Use(func(c *gin.Context) {
		c.Set("userId", "u1")
		c.Next()
	})
	NewHandler(svc, store).RegisterRoutes(g)
	return r, repo
}

func multipartUpload(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestAnalyzeEndpointReturnsAnalysis(t *testing.T) {
	model := &fakeLLM{response: `{"billType":"Electric","totalAmount":55.5,"savingsOpportunities":[{"savings":5}]}`}
	r, repo := newHandlerRouter(t, model)

	body, contentType := multipartUpload(t, "bill", "electric.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success  bool `json:"success"`
		Analysis struct {
			BillType         string `json:"billType"`
			TotalAmount      string `json:"totalAmount"`
			PotentialSavings string `json:"potentialSavings"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Analysis.BillType != "Electric" || resp.Analysis.TotalAmount != "55.50" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Analysis.PotentialSavings != "5.00" {
		t.Errorf("potentialSavings = %q", resp.Analysis.PotentialSavings)
	}

	stored, err := repo.ListByUser(req.Context(), "u1", reports.ListLimit)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("reports = %d, want 1", len(stored))
	}
}

func TestAnalyzeEndpointMissingFile(t *testing.T) {
	r, _ := newHandlerRouter(t, &fakeLLM{response: "{}"})

	body, contentType := multipartUpload(t, "wrong_field", "bill.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != CodeMissingFile {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestAnalyzeEndpointUnsupportedMedia(t *testing.T) {
	r, _ := newHandlerRouter(t, &fakeLLM{response: "{}"})

	body, contentType := multipartUpload(t, "bill", "notes.txt", []byte("just some text"))
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeEndpointPersistFailureStillSucceeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	model := &fakeLLM{response: `{"billType":"Gas","totalAmount":20}`}
	store := localstore.New(t.TempDir())
	svc := &Service{Store: store, LLM: model, Reports: failingReports{}, Usage: &countingUsage{}}

	r := gin.New()
	g := r.Group("/api")
	g.Use(func(c *gin.Context) { c.Set("userId", "u1"); c.Next() })
	NewHandler(svc, store).RegisterRoutes(g)

	body, contentType := multipartUpload(t, "bill", "gas.png", pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/analyze", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success  bool `json:"success"`
		Analysis struct {
			BillType string `json:"billType"`
		} `json:"analysis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Analysis.BillType != "Gas" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
