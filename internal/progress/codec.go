package progress

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// gameStateSchema accepts any JSON object whose known keys, when present,
// are booleans. Unknown keys are tolerated and dropped on the next write.
var gameStateSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		string(FlowerMatch):  map[string]any{"type": "boolean"},
		string(CupcakeCatch): map[string]any{"type": "boolean"},
		string(HeartJump):    map[string]any{"type": "boolean"},
	},
}

const gameStateSchemaURL = "schema://game-state.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(gameStateSchemaURL, gameStateSchema); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(gameStateSchemaURL)
	})
	return compiledSchema, compileErr
}

// Parse decodes a stored payload. It fails on malformed JSON, on anything
// other than an object, and on known keys holding non-boolean values.
func Parse(raw string) (GameState, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return GameState{}, fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := schema()
	if err != nil {
		return GameState{}, err
	}
	if err := sch.Validate(doc); err != nil {
		return GameState{}, fmt.Errorf("schema validation failed: %w", err)
	}

	var state GameState
	for key, v := range doc.(map[string]any) {
		id, err := ParseGameID(key)
		if err != nil || string(id) != key {
			continue
		}
		state = state.With(id, v.(bool))
	}
	return state, nil
}

// Decode is the parse-or-default boundary: any payload Parse rejects,
// including the empty string, yields the all-false default.
func Decode(raw string) GameState {
	if raw == "" {
		return GameState{}
	}
	state, err := Parse(raw)
	if err != nil {
		return GameState{}
	}
	return state
}

// Encode renders s in the stored form.
func Encode(s GameState) string {
	b, _ := json.Marshal(s)
	return string(b)
}
