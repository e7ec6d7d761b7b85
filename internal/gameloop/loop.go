// Package gameloop is the shared frame loop of the mini-game screens.
//
// A Loop schedules one frame at a time through tea.Tick. Every frame and
// every delayed message carries the loop's id and generation; Stop bumps the
// generation, so anything already in flight is recognised as stale and
// dropped. Nothing keeps running after a screen stops its loop.
package gameloop

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

var nextLoopID atomic.Uint64

// FrameMsg is one frame of a running loop.
type FrameMsg struct {
	loop uint64
	gen  uint64
	At   time.Time
}

// DelayedMsg carries a payload scheduled with Loop.After.
type DelayedMsg struct {
	loop    uint64
	gen     uint64
	Payload any
}

// Loop is a cancellable fixed-rate frame scheduler.
type Loop struct {
	id       uint64
	interval time.Duration
	gen      uint64
	running  bool
	frames   int
}

// New creates a stopped loop ticking at fps frames per second.
func New(fps int) *Loop {
	if fps <= 0 {
		fps = 30
	}
	return &Loop{
		id:       nextLoopID.Add(1),
		interval: time.Second / time.Duration(fps),
	}
}

// Interval is the time between frames, and the step each frame represents.
func (l *Loop) Interval() time.Duration { return l.interval }

// Running reports whether frames are being scheduled.
func (l *Loop) Running() bool { return l.running }

// Frames returns how many frames have been accepted since Start.
func (l *Loop) Frames() int { return l.frames }

// Elapsed returns the game time since Start, counted in frames.
func (l *Loop) Elapsed() time.Duration { return time.Duration(l.frames) * l.interval }

// Start (re)starts the loop and returns the command for the first frame.
// Frames from an earlier run are invalidated.
func (l *Loop) Start() tea.Cmd {
	l.gen++
	l.running = true
	l.frames = 0
	return l.tick()
}

// Stop cancels the loop. Frames and delayed messages already scheduled will
// be rejected by Accept.
func (l *Loop) Stop() {
	l.gen++
	l.running = false
}

// Accept reports whether msg is a current frame of this loop, counting it
// if so. Stale frames, frames of other loops and frames arriving after Stop
// are rejected.
func (l *Loop) Accept(msg tea.Msg) bool {
	f, ok := msg.(FrameMsg)
	if !ok || !l.running || f.loop != l.id || f.gen != l.gen {
		return false
	}
	l.frames++
	return true
}

// Next schedules the following frame, or returns nil once the loop has been
// stopped.
func (l *Loop) Next() tea.Cmd {
	if !l.running {
		return nil
	}
	return l.tick()
}

// After delivers payload in a DelayedMsg after d, unless the loop is
// stopped or restarted first. It is the "still mounted" guard for delayed
// navigation.
func (l *Loop) After(d time.Duration, payload any) tea.Cmd {
	id, gen := l.id, l.gen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DelayedMsg{loop: id, gen: gen, Payload: payload}
	})
}

// AcceptDelayed returns the payload of a current DelayedMsg.
func (l *Loop) AcceptDelayed(msg tea.Msg) (any, bool) {
	d, ok := msg.(DelayedMsg)
	if !ok || d.loop != l.id || d.gen != l.gen {
		return nil, false
	}
	return d.Payload, true
}

func (l *Loop) tick() tea.Cmd {
	id, gen := l.id, l.gen
	return tea.Tick(l.interval, func(t time.Time) tea.Msg {
		return FrameMsg{loop: id, gen: gen, At: t}
	})
}
