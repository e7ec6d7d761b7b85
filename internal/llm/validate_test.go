package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func letterSchema() *Schema {
	return &Schema{
		Name:        "test-letter",
		Description: "A short letter",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string", "minLength": 1},
				"body":  map[string]any{"type": "string"},
				"mood":  map[string]any{"type": "string", "enum": []any{"sweet", "funny"}},
				"lines": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"required": []any{"title", "body"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"all fields", `{"title":"Hi","body":"Love you","mood":"sweet","lines":["a","b"]}`, false},
		{"optional omitted", `{"title":"Hi","body":"Love you"}`, false},
		{"missing required", `{"title":"Hi"}`, true},
		{"wrong type", `{"title":"Hi","body":3}`, true},
		{"bad enum", `{"title":"Hi","body":"x","mood":"grumpy"}`, true},
		{"bad array item", `{"title":"Hi","body":"x","lines":[1]}`, true},
		{"empty title", `{"title":"","body":"x"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(letterSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			var inv *ErrInvalidResponse
			if err != nil && !errors.As(err, &inv) {
				t.Errorf("err type = %T, want *ErrInvalidResponse", err)
			}
		})
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}
