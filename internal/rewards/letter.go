package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/abhisek/pixelgift/internal/config"
	"github.com/abhisek/pixelgift/internal/llm"
	"github.com/abhisek/pixelgift/internal/logging"
)

// Letter is the special reward.
type Letter struct {
	Title string
	Body  string
	// Personalized is true when the text came from a model.
	Personalized bool
}

// LetterInput is what the model may mention.
type LetterInput struct {
	Recipient string
	Presents  []Present
}

// LetterSchema is the structured output the model must return.
var LetterSchema = &llm.Schema{
	Name:        "reward-letter",
	Description: "A short, warm letter congratulating someone on finishing a set of gift games",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short heading (3-8 words)",
				"minLength":   1,
			},
			"body": map[string]any{
				"type":        "string",
				"description": "The letter itself, 3-6 sentences",
				"minLength":   1,
			},
		},
		"required":             []any{"title", "body"},
		"additionalProperties": false,
	},
}

const letterSystemPrompt = `You write short, affectionate letters for a personal gift. The reader just finished three small games made for them. Keep it warm and playful, never generic or corporate.`

func buildLetterMessage(in LetterInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recipient: %s\n\nPresents they unlocked:\n", in.Recipient)
	for _, p := range in.Presents {
		fmt.Fprintf(&b, "- %s: %s\n", p.Title, p.Content)
	}
	b.WriteString(`
Instructions:
Write a letter of 3-6 sentences addressed to the recipient by name. Mention at least one of the presents. Plain text only, no markdown.`)
	return b.String()
}

type letterOutput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// LetterWriter produces the special letter. Without a provider, or when
// generation fails, it returns the configured static letter.
type LetterWriter struct {
	provider    llm.Provider
	static      Letter
	personalize bool
	maxTokens   int
	log         *slog.Logger

	mu     sync.Mutex
	cached *Letter
}

// NewLetterWriter creates a writer. provider may be nil.
func NewLetterWriter(provider llm.Provider, cfg config.Letter, log *slog.Logger) *LetterWriter {
	return &LetterWriter{
		provider:    provider,
		static:      Letter{Title: cfg.Title, Body: cfg.Body},
		personalize: cfg.Personalize && provider != nil,
		maxTokens:   400,
		log:         logging.Tagged(log, "rewards"),
	}
}

// Static returns the configured letter.
func (w *LetterWriter) Static() Letter { return w.static }

// Personalizes reports whether Write will call a model.
func (w *LetterWriter) Personalizes() bool { return w.personalize }

// Write returns the letter, generating it on first use. A generated letter
// is cached for the life of the writer; a failure is not, so a later call
// tries again.
func (w *LetterWriter) Write(ctx context.Context, in LetterInput) Letter {
	if !w.personalize {
		return w.static
	}
	w.mu.Lock()
	if w.cached != nil {
		l := *w.cached
		w.mu.Unlock()
		return l
	}
	w.mu.Unlock()

	l, err := w.generate(ctx, in)
	if err != nil {
		w.log.Warn("letter generation failed, using static letter", "err", err)
		return w.static
	}

	w.mu.Lock()
	w.cached = &l
	w.mu.Unlock()
	return l
}

func (w *LetterWriter) generate(ctx context.Context, in LetterInput) (Letter, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLetter)
	req := llm.UserPrompt(letterSystemPrompt, buildLetterMessage(in), LetterSchema, w.maxTokens)
	req.Temperature = 0.8

	resp, err := w.provider.Generate(ctx, req)
	if err != nil {
		return Letter{}, fmt.Errorf("letter generation: %w", err)
	}
	var out letterOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Letter{}, fmt.Errorf("parse letter response: %w", err)
	}
	return Letter{Title: out.Title, Body: out.Body, Personalized: true}, nil
}
