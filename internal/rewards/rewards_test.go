package rewards

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pixelgift/internal/config"
	"github.com/abhisek/pixelgift/internal/llm"
	"github.com/abhisek/pixelgift/internal/logging"
	"github.com/abhisek/pixelgift/internal/progress"
)

func TestCatalogue(t *testing.T) {
	c := NewCatalogue(config.Defaults().Presents)

	assert.Equal(t, "Special Message", c.For(progress.FlowerMatch).Title)
	assert.Equal(t, "Date Coupon", c.For(progress.CupcakeCatch).Title)
	assert.Equal(t, "Sweet Surprise", c.For(progress.HeartJump).Title)

	state := progress.GameState{CupcakeCatch: true}
	entries := c.Entries(progress.Rewards(state))
	require.Len(t, entries, 3)
	assert.False(t, entries[0].Unlocked)
	assert.True(t, entries[1].Unlocked)
	assert.False(t, entries[2].Unlocked)
	assert.Equal(t, "Complete Heart Jump to unlock!", entries[2].LockedHint())
}

func TestCatalogueFillsGaps(t *testing.T) {
	c := NewCatalogue(map[string]config.Present{
		"heart-jump": {Title: "Kiss", Content: "x"},
		"bogus":      {Title: "Ignored"},
	})
	assert.Equal(t, "Kiss", c.For(progress.HeartJump).Title)
	assert.Equal(t, progress.HeartJump, c.For(progress.HeartJump).Game)
	assert.Equal(t, "Surprise", c.For(progress.FlowerMatch).Title)
}

func letterInput() LetterInput {
	c := NewCatalogue(config.Defaults().Presents)
	return LetterInput{Recipient: "Vanessa", Presents: c.Presents()}
}

func TestLetterStaticWithoutProvider(t *testing.T) {
	cfg := config.Defaults().Letter
	cfg.Personalize = true
	w := NewLetterWriter(nil, cfg, logging.Discard())

	assert.False(t, w.Personalizes())
	l := w.Write(context.Background(), letterInput())
	assert.Equal(t, "¡Completaste todos los juegos!", l.Title)
	assert.False(t, l.Personalized)
}

func TestLetterStaticWhenNotRequested(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"title":"T","body":"B"}`)})
	w := NewLetterWriter(mock, config.Defaults().Letter, logging.Discard())

	l := w.Write(context.Background(), letterInput())
	assert.False(t, l.Personalized)
	assert.Equal(t, 0, mock.CallCount())
}

func TestLetterGenerated(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"title":"Para ti","body":"Querida Vanessa..."}`)})
	cfg := config.Defaults().Letter
	cfg.Personalize = true
	w := NewLetterWriter(mock, cfg, logging.Discard())

	l := w.Write(context.Background(), letterInput())
	assert.True(t, l.Personalized)
	assert.Equal(t, "Para ti", l.Title)
	assert.Equal(t, "Querida Vanessa...", l.Body)

	// Cached: no second call.
	again := w.Write(context.Background(), letterInput())
	assert.Equal(t, l, again)
	assert.Equal(t, 1, mock.CallCount())

	req := mock.Calls[0]
	assert.Equal(t, LetterSchema, req.Schema)
	assert.True(t, strings.Contains(req.Messages[0].Content, "Recipient: Vanessa"))
	assert.True(t, strings.Contains(req.Messages[0].Content, "Date Coupon"))
}

func TestLetterFallsBackAndRetries(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: json.RawMessage(`not json`)},
		llm.MockResponse{Content: json.RawMessage(`{"title":"Ok","body":"Fine"}`)},
	)
	cfg := config.Defaults().Letter
	cfg.Personalize = true
	w := NewLetterWriter(mock, cfg, logging.Discard())

	assert.Equal(t, w.Static(), w.Write(context.Background(), letterInput()))
	assert.Equal(t, w.Static(), w.Write(context.Background(), letterInput()))
	assert.Equal(t, "Ok", w.Write(context.Background(), letterInput()).Title)
	assert.Equal(t, 3, mock.CallCount())
}
