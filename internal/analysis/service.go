package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"billaudit-backend/internal/extract"
	"billaudit-backend/internal/llm"
	"billaudit-backend/internal/reports"
	"billaudit-backend/internal/shared/storage/object"
	"billaudit-backend/internal/shared/telemetry"
)

// Pipeline stages, in execution order. Failed is reachable from any of them.
const (
	stageReceived           = "received"
	stageExtracted          = "extracted"
	stagePromptBuilt        = "prompt_built"
	stageInferenceRequested = "inference_requested"
	stageResponseParsed     = "response_parsed"
	stagePersisted          = "persisted"
	stageCompleted          = "completed"
)

// UsageRecorder bumps a user's analysis counter.
type UsageRecorder interface {
	IncrementAnalysisCount(ctx context.Context, userID string) error
}

// Service runs the bill analysis pipeline. One invocation per request, steps
// strictly sequential, no shared in-memory state across invocations.
type Service struct {
	Store   object.UploadStore
	LLM     llm.Client
	Reports reports.Repo
	Usage   UsageRecorder
}

// Analyze runs one uploaded bill through extraction, inference, normalization
// and persistence. The spooled upload is released on every exit path. A
// persistence failure after successful normalization still returns the
// computed Analysis alongside the error.
func (s *Service) Analyze(ctx context.Context, userID string, up Upload) (Analysis, error) {
	if up.StorageKey == "" {
		return Analysis{}, ErrMissingFile
	}

	// Guaranteed release: exactly one temp object per invocation, removed
	// whether the pipeline completes or fails.
	defer func() {
		if err := s.Store.Remove(context.WithoutCancel(ctx), up.StorageKey); err != nil {
			telemetry.Warn("analysis.cleanup_failed", map[string]any{
				"user_id":     userID,
				"storage_key": up.StorageKey,
				"error":       err.Error(),
			})
		}
	}()

	s.logStage(userID, up.OriginalName, stageReceived)

	if !extract.SupportedMimeType(up.MimeType) {
		return Analysis{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, up.MimeType)
	}

	raw, err := s.readUpload(ctx, up.StorageKey)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	content, err := extract.Extract(ctx, raw, up.MimeType)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	s.logStage(userID, up.OriginalName, stageExtracted)

	input := buildPrompt(content, up.MimeType)
	s.logStage(userID, up.OriginalName, stagePromptBuilt)

	s.logStage(userID, up.OriginalName, stageInferenceRequested)
	response, err := s.LLM.AnalyzeBill(ctx, input)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrInference, err)
	}

	parsed, err := parseModelResponse(response)
	if err != nil {
		return Analysis{}, err
	}
	s.logStage(userID, up.OriginalName, stageResponseParsed)

	now := time.Now().UTC()
	result := normalizeAnalysis(parsed, uuid.NewString(), now.Format(time.RFC3339), up.OriginalName)

	if err := s.persist(ctx, userID, result, now); err != nil {
		return result, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.logStage(userID, up.OriginalName, stagePersisted)

	s.logStage(userID, up.OriginalName, stageCompleted)
	return result, nil
}

func (s *Service) readUpload(ctx context.Context, storageKey string) ([]byte, error) {
	body, err := s.Store.Open(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// persist writes the report, then bumps the user's counter. The two writes
// are deliberately not atomic: if the counter update fails the report stays
// visible, an accepted inconsistency.
func (s *Service) persist(ctx context.Context, userID string, result Analysis, now time.Time) error {
	payload, err := analysisDocument(result)
	if err != nil {
		return err
	}

	report := reports.Report{
		ID:               uuid.NewString(),
		UserID:           userID,
		FileName:         result.FileName,
		Analysis:         payload,
		TotalAmount:      result.TotalAmount,
		PotentialSavings: result.PotentialSavings,
		IssuesCount:      result.IssuesCount,
		CreatedAt:        now,
	}
	if err := s.Reports.Create(ctx, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	if s.Usage != nil {
		if err := s.Usage.IncrementAnalysisCount(ctx, userID); err != nil {
			return fmt.Errorf("increment analysis count: %w", err)
		}
	}
	return nil
}

func analysisDocument(result Analysis) (map[string]any, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) logStage(userID, fileName, stage string) {
	telemetry.Info("analysis.stage", map[string]any{
		"user_id":   userID,
		"file_name": fileName,
		"stage":     stage,
	})
}
