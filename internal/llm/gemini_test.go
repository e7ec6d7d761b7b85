package llm

import "testing"

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(letterSchema().Definition)

	if s.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("properties = %d, want 4", len(s.Properties))
	}
	if s.Properties["title"].Type != "STRING" {
		t.Errorf("title type = %s", s.Properties["title"].Type)
	}
	if got := s.Properties["mood"].Enum; len(got) != 2 || got[0] != "sweet" {
		t.Errorf("mood enum = %v", got)
	}
	if s.Properties["lines"].Type != "ARRAY" || s.Properties["lines"].Items.Type != "STRING" {
		t.Errorf("lines = %+v", s.Properties["lines"])
	}
	if len(s.Required) != 2 {
		t.Errorf("required = %v", s.Required)
	}
}

func TestGeminiSchemaUnknownType(t *testing.T) {
	if s := geminiSchema(map[string]any{"type": "null"}); s.Type != "STRING" {
		t.Errorf("type = %s, want STRING fallback", s.Type)
	}
}
