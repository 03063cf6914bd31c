package analysis

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"billaudit-backend/internal/llm"
	"billaudit-backend/internal/reports"
	localstore "billaudit-backend/internal/shared/storage/object/local"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type fakeLLM struct {
	response string
	err      error
	lastIn   llm.AnalyzeInput
}

func (f *fakeLLM) AnalyzeBill(_ context.Context, input llm.AnalyzeInput) (string, error) {
	f.lastIn = input
	return f.response, f.err
}

type countingUsage struct {
	calls int
}

func (u *countingUsage) IncrementAnalysisCount(context.Context, string) error {
	u.calls++
	return nil
}

type failingReports struct {
	reports.Repo
}

func (failingReports) Create(context.Context, reports.Report) error {
	return errors.New("disk full")
}

func newTestService(t *testing.T, model *fakeLLM) (*Service, *reports.MemoryRepo, *countingUsage, string) {
	t.Helper()
	dir := t.TempDir()
	repo := reports.NewMemoryRepo()
	usage := &countingUsage{}
	svc := &Service{
		Store:   localstore.New(dir),
		LLM:     model,
		Reports: repo,
		Usage:   usage,
	}
	return svc, repo, usage, dir
}

func saveUpload(t *testing.T, svc *Service, name string, data []byte) Upload {
	t.Helper()
	key, size, mime, err := svc.Store.Save(context.Background(), "u1", name, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return Upload{StorageKey: key, OriginalName: name, MimeType: mime, SizeBytes: size}
}

func storedFileCount(t *testing.T, dir string) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return count
}

func TestAnalyzeHappyPathPersistsAndCleansUp(t *testing.T) {
	model := &fakeLLM{response: "```json\n{\"billType\":\"Internet\",\"totalAmount\":60,\"potentialIssues\":[{\"issue\":\"late fee\"}],\"savingsOpportunities\":[{\"savings\":10}]}\n```"}
	svc, repo, usage, dir := newTestService(t, model)

	up := saveUpload(t, svc, "bill.png", pngHeader)
	result, err := svc.Analyze(context.Background(), "u1", up)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.BillType != "Internet" || result.TotalAmount != "60.00" {
		t.Errorf("unexpected result %+v", result)
	}
	if result.PotentialSavings != "10.00" || result.IssuesCount != 1 {
		t.Errorf("derived fields %q/%d", result.PotentialSavings, result.IssuesCount)
	}
	if model.lastIn.ImageDataURI == "" {
		t.Error("image upload should reach the model as a data URI")
	}

	stored, err := repo.ListByUser(context.Background(), "u1", reports.ListLimit)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("reports = %d, want 1", len(stored))
	}
	if stored[0].FileName != "bill.png" || stored[0].IssuesCount != 1 {
		t.Errorf("stored report %+v", stored[0])
	}
	if usage.calls != 1 {
		t.Errorf("usage increments = %d, want 1", usage.calls)
	}
	if n := storedFileCount(t, dir); n != 0 {
		t.Errorf("temp files left behind: %d", n)
	}
}

func TestAnalyzeUnsupportedTypeRemovesUpload(t *testing.T) {
	svc, repo, _, dir := newTestService(t, &fakeLLM{response: "{}"})

	up := saveUpload(t, svc, "notes.txt", []byte("plain text, not a bill"))
	_, err := svc.Analyze(context.Background(), "u1", up)
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("err = %v, want ErrUnsupportedMedia", err)
	}

	if stored, _ := repo.ListByUser(context.Background(), "u1", reports.ListLimit); len(stored) != 0 {
		t.Errorf("nothing should persist, got %d reports", len(stored))
	}
	if n := storedFileCount(t, dir); n != 0 {
		t.Errorf("temp files left behind: %d", n)
	}
}

func TestAnalyzeMalformedResponseDoesNotPersist(t *testing.T) {
	model := &fakeLLM{response: "I cannot read this bill."}
	svc, repo, usage, dir := newTestService(t, model)

	up := saveUpload(t, svc, "bill.png", pngHeader)
	_, err := svc.Analyze(context.Background(), "u1", up)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}

	if stored, _ := repo.ListByUser(context.Background(), "u1", reports.ListLimit); len(stored) != 0 {
		t.Errorf("nothing should persist, got %d reports", len(stored))
	}
	if usage.calls != 0 {
		t.Errorf("usage incremented on failure: %d", usage.calls)
	}
	if n := storedFileCount(t, dir); n != 0 {
		t.Errorf("temp files left behind: %d", n)
	}
}

func TestAnalyzeInferenceErrorSurfaces(t *testing.T) {
	model := &fakeLLM{err: errors.New("rate limited")}
	svc, _, _, dir := newTestService(t, model)

	up := saveUpload(t, svc, "bill.png", pngHeader)
	_, err := svc.Analyze(context.Background(), "u1", up)
	if !errors.Is(err, ErrInference) {
		t.Fatalf("err = %v, want ErrInference", err)
	}
	if n := storedFileCount(t, dir); n != 0 {
		t.Errorf("temp files left behind: %d", n)
	}
}

func TestAnalyzePersistenceFailureStillReturnsAnalysis(t *testing.T) {
	model := &fakeLLM{response: `{"billType":"Water","totalAmount":30}`}
	svc, _, _, _ := newTestService(t, model)
	svc.Reports = failingReports{}

	up := saveUpload(t, svc, "bill.png", pngHeader)
	result, err := svc.Analyze(context.Background(), "u1", up)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if result.BillType != "Water" || result.TotalAmount != "30.00" {
		t.Errorf("analysis should survive persistence failure, got %+v", result)
	}
}

func TestAnalyzeEmptyStorageKeyIsMissingFile(t *testing.T) {
	svc, _, _, _ := newTestService(t, &fakeLLM{response: "{}"})
	if _, err := svc.Analyze(context.Background(), "u1", Upload{}); !errors.Is(err, ErrMissingFile) {
		t.Fatalf("err = %v, want ErrMissingFile", err)
	}
}
