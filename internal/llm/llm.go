package llm

import (
	"context"
	"errors"
)

// Client abstracts the multimodal inference provider used for bill analysis.
// The returned string is the model's free-form text; parsing it is the
// caller's responsibility.
type Client interface {
	AnalyzeBill(ctx context.Context, input AnalyzeInput) (string, error)
}

// AnalyzeInput is one prompt for the inference service. Prompt always carries
// the instruction (with extracted bill text inlined for documents); for image
// bills ImageDataURI holds the base64 data URI attached as a second content
// part of the same message.
type AnalyzeInput struct {
	Prompt       string
	ImageDataURI string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm client not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// AnalyzeBill returns ErrNotConfigured.
func (PlaceholderClient) AnalyzeBill(ctx context.Context, input AnalyzeInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}
