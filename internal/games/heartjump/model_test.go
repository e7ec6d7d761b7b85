package heartjump

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/pixelgift/internal/games"
)

const frame = time.Second / 60

func run(m *Model, d time.Duration) {
	for t := time.Duration(0); t < d && !m.Status().Over(); t += frame {
		m.Step(frame)
	}
}

// emptyLevel has no hearts so physics tests never end the round early.
func emptyLevel() *Model {
	cfg := DefaultConfig()
	cfg.Hearts = 0
	return New(cfg, games.NewRand(1))
}

func TestStandsOnGround(t *testing.T) {
	m := emptyLevel()
	run(m, time.Second)

	assert.True(t, m.Grounded())
	assert.Equal(t, 400-playerSize, m.Player().Y)
	assert.Equal(t, games.StatusPlaying, m.Status())
}

func TestJumpLandsOnFirstPlatform(t *testing.T) {
	m := emptyLevel()
	m.player.X = 170
	m.Step(frame)

	require.True(t, m.Jump())
	assert.False(t, m.Jump(), "no double jump")

	run(m, time.Second)

	assert.True(t, m.Grounded())
	assert.Equal(t, 300-playerSize, m.Player().Y)
}

func TestMovement(t *testing.T) {
	m := emptyLevel()
	x := m.Player().X

	m.HandleKey("right")
	run(m, 100*time.Millisecond)
	assert.Greater(t, m.Player().X, x)

	for i := 0; i < 20; i++ {
		m.HandleKey("left")
		run(m, 150*time.Millisecond)
	}
	assert.Equal(t, 0.0, m.Player().X)
}

func TestCollectHeartsWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hearts = 0
	cfg.HeartsToWin = 1
	m := New(cfg, games.NewRand(1))
	m.hearts = []heart{{Rect: Rect{X: 60, Y: 370, W: heartSize, H: heartSize}}}

	m.Step(frame)

	assert.Equal(t, 1, m.Score())
	assert.Equal(t, games.StatusWon, m.Status())
}

func TestFallingLoses(t *testing.T) {
	m := emptyLevel()
	m.platforms = nil

	run(m, 2*time.Second)

	assert.Equal(t, games.StatusLost, m.Status())
	assert.Contains(t, m.Reason(), "fell")
}

func TestTimeUpLoses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = time.Second
	m := New(cfg, games.NewRand(1))
	m.hearts = nil

	run(m, 2*time.Second)

	assert.Equal(t, games.StatusLost, m.Status())
	assert.True(t, strings.HasPrefix(m.Reason(), "Time's up!"))
}

func TestFrozenAfterGameOver(t *testing.T) {
	m := emptyLevel()
	m.platforms = nil
	run(m, 2*time.Second)
	require.True(t, m.Status().Over())

	p := m.Player()
	m.HandleKey("right")
	m.Step(frame)
	assert.Equal(t, p, m.Player())
}

func TestHeartsSitAboveRaisedPlatforms(t *testing.T) {
	m := New(DefaultConfig(), games.NewRand(9))
	require.Len(t, m.hearts, 15)

	raised := DefaultPlatforms()[1:]
	for _, h := range m.hearts {
		found := false
		for _, p := range raised {
			if h.Y == p.Y-30 && h.X >= p.X && h.X <= p.X+p.W {
				found = true
			}
		}
		assert.True(t, found, "heart at %.0f,%.0f is not over a platform", h.X, h.Y)
	}
	assert.Contains(t, m.View(), "♥")
	assert.Equal(t, "Hearts: 0/12   Time: 60s", m.HUD())
}
