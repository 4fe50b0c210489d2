package validation

import (
	"errors"
	"testing"
)

type sampleRequest struct {
	Title    string `json:"title" validate:"notblank_trimmed,max=255"`
	Priority *int   `json:"priority,omitempty" validate:"omitempty,priority"`
	Action   string `json:"action" validate:"required,batch_action"`
}

func intPtr(i int) *int { return &i }

func TestFieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        sampleRequest
		wantFields []string
	}{
		{
			name:       "valid",
			req:        sampleRequest{Title: "ok", Priority: intPtr(3), Action: "complete_all"},
			wantFields: nil,
		},
		{
			name:       "blank title",
			req:        sampleRequest{Title: "   ", Action: "delete_all"},
			wantFields: []string{"title"},
		},
		{
			name:       "control characters only title",
			req:        sampleRequest{Title: "\u0001\u0002 ", Action: "delete_all"},
			wantFields: []string{"title"},
		},
		{
			name:       "priority out of range",
			req:        sampleRequest{Title: "ok", Priority: intPtr(6), Action: "delete_all"},
			wantFields: []string{"priority"},
		},
		{
			name:       "unknown action and blank title",
			req:        sampleRequest{Title: "", Action: "archive"},
			wantFields: []string{"title", "action"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate.Struct(tt.req)
			fields := FieldErrors(err)

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("expected %d field errors, got %v", len(tt.wantFields), fields)
			}
			for _, f := range tt.wantFields {
				if fields[f] == "" {
					t.Errorf("expected message for field %q, got %v", f, fields)
				}
			}
		})
	}
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	t.Parallel()

	if got := FieldErrors(errors.New("boom")); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims", input: "  hello  ", want: "hello"},
		{name: "keeps newline and tab", input: "a\nb\tc", want: "a\nb\tc"},
		{name: "drops control chars", input: "a\x00b\x07c", want: "abc"},
		{name: "only whitespace", input: " \t\n ", want: ""},
		{name: "trailing space before control char", input: "  Buy milk \x00", want: "Buy milk"},
		{name: "only control chars", input: "\x01\x07", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFieldErrors_Messages(t *testing.T) {
	t.Parallel()

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	fields := FieldErrors(Validate.Struct(sampleRequest{Title: string(long), Priority: intPtr(0), Action: "delete_all"}))

	if got, want := fields["title"], "Title must be between 1 and 255 characters"; got != want {
		t.Errorf("title message = %q, want %q", got, want)
	}
	if got, want := fields["priority"], "Priority must be between 1 and 5"; got != want {
		t.Errorf("priority message = %q, want %q", got, want)
	}
}
