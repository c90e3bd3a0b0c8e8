package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	tests := []struct {
		name    string
		text    string
		maxSize int
		want    string
	}{
		{
			name:    "under-limit",
			text:    "short",
			maxSize: 100,
			want:    "short",
		},
		{
			name:    "no-limit",
			text:    "anything",
			maxSize: 0,
			want:    "anything",
		},
		{
			name:    "over-limit",
			text:    "abcdefgh",
			maxSize: 4,
			want:    "abcd...",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			if got := tp.TruncateText(tc.text, tc.maxSize); got != tc.want {
				t.Fatalf("TruncateText(%q, %d) = %q, want %q", tc.text, tc.maxSize, got, tc.want)
			}
		})
	}
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	// Cut in the middle of a multi-byte rune; the result must stay valid.
	text := strings.Repeat("é", 10)
	got := tp.TruncateText(text, 3)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated text is not valid UTF-8: %q", got)
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	clean := tp.SanitizeUTF8("hello\xff\xfeworld")
	if !utf8.ValidString(clean) {
		t.Fatalf("sanitized text is not valid UTF-8: %q", clean)
	}
	if !strings.Contains(clean, "hello") || !strings.Contains(clean, "world") {
		t.Fatalf("sanitize dropped valid content: %q", clean)
	}
}
