package logger

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain path", input: "/api/v1/todos/42", want: "/api/v1/todos/42"},
		{name: "control characters stripped", input: "/api/v1/todos\x00\x1b[31m", want: "/api/v1/todos[31m"},
		{name: "invalid utf8 dropped", input: "/todos/\xff\xfe1", want: "/todos/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizePath(tt.input); got != tt.want {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePath_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizePath("/" + strings.Repeat("a", MaxPathLength*2))
	if len(got) != MaxPathLength+3 {
		t.Errorf("Expected length %d, got %d", MaxPathLength+3, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected truncated path to end with ellipsis")
	}
}

func TestSanitizeTitle(t *testing.T) {
	t.Parallel()

	title := "Buy\tmilk\x07"
	if got := SanitizeTitle(title); got != "Buy\tmilk" {
		t.Errorf("SanitizeTitle() = %q", got)
	}

	long := strings.Repeat("x", MaxTitleLength+10)
	if got := SanitizeTitle(long); len(got) != MaxTitleLength+3 {
		t.Errorf("Expected truncated title length %d, got %d", MaxTitleLength+3, len(got))
	}
}

func TestSanitizeString_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// "é" is two bytes, so a cut at byte 5 would split the third rune
	got := SanitizeString("ééééé", 5)
	if got != "éé..." {
		t.Errorf("SanitizeString() = %q, want %q", got, "éé...")
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated string is not valid UTF-8: %q", got)
	}

	if got := SanitizeString("abc", 0); got != "abc" {
		t.Errorf("SanitizeString() with default limit = %q", got)
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("Expected empty string for nil error, got %q", got)
	}
	if got := SanitizeError(errors.New("pq: connection refused\r\x00")); got != "pq: connection refused\r" {
		t.Errorf("SanitizeError() = %q", got)
	}
}
