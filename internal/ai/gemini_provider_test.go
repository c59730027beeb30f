package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"o1ready/internal/types"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly at limit", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"empty input", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateText(tt.input, tt.limit); got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncateTextKeepsRunesIntact(t *testing.T) {
	// "é" is two bytes in UTF-8; a byte-index cut at 3 would split it.
	s := "ab" + "é" + "cd"
	got := truncateText(s, 3)
	if got != "ab" {
		t.Errorf("Expected cut before the multi-byte rune, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("Truncated text is not valid UTF-8: %q", got)
	}

	// Long multi-byte input never produces an invalid tail.
	long := strings.Repeat("résumé ", 500)
	for limit := 1995; limit <= 2005; limit++ {
		out := truncateText(long, limit)
		if !utf8.ValidString(out) {
			t.Fatalf("Invalid UTF-8 after truncating at %d bytes", limit)
		}
		if len(out) > limit {
			t.Fatalf("Truncated text exceeds limit %d: %d bytes", limit, len(out))
		}
	}
}

func TestFormatTranscript(t *testing.T) {
	if got := formatTranscript(nil); got != "(no messages yet)" {
		t.Errorf("Expected placeholder for empty transcript, got %q", got)
	}

	got := formatTranscript([]types.ChatMessage{
		{Role: "assistant", Content: "What awards have you won?"},
		{Role: "user", Content: "Best paper at NeurIPS."},
	})
	want := "Assistant: What awards have you won?\nUser: Best paper at NeurIPS."
	if got != want {
		t.Errorf("formatTranscript mismatch:\n got %q\nwant %q", got, want)
	}
}
