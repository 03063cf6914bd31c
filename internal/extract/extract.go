package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// MimePDF is the only document media type accepted for bill uploads.
	MimePDF = "application/pdf"
)

// Kind discriminates the two content forms the analysis prompt can carry.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

var imageMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// Content is the extracted payload of an uploaded bill: decoded text for
// document types, raw bytes for image types. Exactly one of Text/Bytes is set.
type Content struct {
	Kind  Kind
	Text  string
	Bytes []byte
}

// SupportedMimeType reports whether the media type is in the accepted set.
func SupportedMimeType(mimeType string) bool {
	clean := NormalizeMimeType(mimeType)
	if clean == MimePDF {
		return true
	}
	_, ok := imageMimeTypes[clean]
	return ok
}

// NormalizeMimeType lowercases the media type and strips parameters.
func NormalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

// Extract converts an uploaded bill into prompt-ready content. Documents are
// decoded to text via github.com/ledongthuc/pdf; supported images pass their
// bytes through untouched (base64 encoding is the pipeline's job, not ours).
func Extract(ctx context.Context, data []byte, mimeType string) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}

	clean := NormalizeMimeType(mimeType)
	switch {
	case clean == MimePDF:
		text, err := extractPDF(data)
		if err != nil {
			return Content{}, fmt.Errorf("extract pdf: %w", err)
		}
		return Content{Kind: KindText, Text: text}, nil
	case isImage(clean):
		if len(data) == 0 {
			return Content{}, fmt.Errorf("empty image payload")
		}
		return Content{Kind: KindImage, Bytes: data}, nil
	default:
		return Content{}, fmt.Errorf("unsupported mime type: %s", clean)
	}
}

func isImage(mimeType string) bool {
	_, ok := imageMimeTypes[mimeType]
	return ok
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
