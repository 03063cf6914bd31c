package analysis

import "errors"

// Pipeline error taxonomy. Each sentinel marks the stage that failed; callers
// wrap with context and the handler maps them to stable HTTP codes. None of
// these are retried.
var (
	ErrMissingFile       = errors.New("no file attached")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrExtraction        = errors.New("content extraction failed")
	ErrInference         = errors.New("inference request failed")
	ErrMalformedResponse = errors.New("model response contained no parseable JSON")
	ErrPersistence       = errors.New("report persistence failed")
)

const (
	CodeMissingFile       = "missing_file"
	CodeUnsupportedMedia  = "unsupported_media_type"
	CodeExtractionFailed  = "extraction_failed"
	CodeInferenceFailed   = "inference_failed"
	CodeMalformedResponse = "malformed_response"
	CodeInternal          = "internal_error"
)
