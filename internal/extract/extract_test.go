package extract

import (
	"context"
	"testing"
)

func TestSupportedMimeType(t *testing.T) {
	cases := []struct {
		mime string
		want bool
	}{
		{"application/pdf", true},
		{"application/pdf; charset=binary", true},
		{"IMAGE/JPEG", true},
		{"image/png", true},
		{"image/webp", true},
		{"image/gif", true},
		{"text/plain", false},
		{"application/msword", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := SupportedMimeType(tc.mime); got != tc.want {
			t.Errorf("SupportedMimeType(%q) = %v, want %v", tc.mime, got, tc.want)
		}
	}
}

func TestExtractImagePassesBytesThrough(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	content, err := Extract(context.Background(), payload, "image/png")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if content.Kind != KindImage {
		t.Fatalf("expected image kind, got %s", content.Kind)
	}
	if string(content.Bytes) != string(payload) {
		t.Fatal("expected raw bytes to pass through unchanged")
	}
	if content.Text != "" {
		t.Fatal("expected no text for image content")
	}
}

func TestExtractRejectsUnsupportedType(t *testing.T) {
	if _, err := Extract(context.Background(), []byte("x"), "text/csv"); err == nil {
		t.Fatal("expected unsupported mime type error")
	}
}

func TestExtractRejectsCorruptPDF(t *testing.T) {
	if _, err := Extract(context.Background(), []byte("not a pdf"), "application/pdf"); err == nil {
		t.Fatal("expected corrupt pdf to fail extraction")
	}
}

func TestExtractRejectsEmptyImage(t *testing.T) {
	if _, err := Extract(context.Background(), nil, "image/jpeg"); err == nil {
		t.Fatal("expected empty image payload to fail")
	}
}
