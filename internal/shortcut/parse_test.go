package shortcut

import "testing"

func TestParseStoryID(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantID  int64
		wantOK  bool
	}{
		{
			name:    "tag at start",
			message: "[sc-123] fix login",
			wantID:  123,
			wantOK:  true,
		},
		{
			name:    "tag with multiline body",
			message: "[sc-42] fix\n\nlonger explanation",
			wantID:  42,
			wantOK:  true,
		},
		{
			name:    "zero id",
			message: "[sc-0] noop",
			wantID:  0,
			wantOK:  true,
		},
		{
			name:    "no tag",
			message: "oops typo",
			wantOK:  false,
		},
		{
			name:    "tag not at start",
			message: "fix login [sc-123]",
			wantOK:  false,
		},
		{
			name:    "leading whitespace",
			message: " [sc-123] fix login",
			wantOK:  false,
		},
		{
			name:    "uppercase prefix",
			message: "[SC-123] fix login",
			wantOK:  false,
		},
		{
			name:    "missing number",
			message: "[sc-] fix login",
			wantOK:  false,
		},
		{
			name:    "negative number",
			message: "[sc--5] fix login",
			wantOK:  false,
		},
		{
			name:    "unclosed bracket",
			message: "[sc-123 fix login",
			wantOK:  false,
		},
		{
			name:    "number too large for an id",
			message: "[sc-99999999999999999999] fix login",
			wantOK:  false,
		},
		{
			name:    "empty message",
			message: "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ParseStoryID(tt.message)
			if ok != tt.wantOK {
				t.Fatalf("ParseStoryID(%q) ok = %v, want %v", tt.message, ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("ParseStoryID(%q) = %d, want %d", tt.message, id, tt.wantID)
			}
		})
	}
}

func TestStory_HasLabel(t *testing.T) {
	story := Story{
		ID:     1,
		Labels: []Label{{ID: 10, Name: "Technical"}, {ID: 11, Name: "internal"}},
	}

	if !story.HasLabel("Technical") {
		t.Error("expected label Technical to be present")
	}
	if story.HasLabel("technical") {
		t.Error("label matching must be case-sensitive")
	}
	if story.HasLabel("missing") {
		t.Error("unexpected label match")
	}
	if !story.HasAnyLabel([]string{"missing", "internal"}) {
		t.Error("expected HasAnyLabel to match internal")
	}
	if story.HasAnyLabel(nil) {
		t.Error("HasAnyLabel with no names must not match")
	}
}
