package progress

// GameState records which mini-games have been completed. The zero value is
// the all-false default.
type GameState struct {
	FlowerMatch  bool `json:"flowerMatch"`
	CupcakeCatch bool `json:"cupcakeCatch"`
	HeartJump    bool `json:"heartJump"`
}

// Partial is a sparse update: only the listed games change.
type Partial map[GameID]bool

// Completed reports the flag for id. Unknown ids are never completed.
func (s GameState) Completed(id GameID) bool {
	switch id {
	case FlowerMatch:
		return s.FlowerMatch
	case CupcakeCatch:
		return s.CupcakeCatch
	case HeartJump:
		return s.HeartJump
	}
	return false
}

// With returns a copy of s with the flag for id set to done.
func (s GameState) With(id GameID, done bool) GameState {
	switch id {
	case FlowerMatch:
		s.FlowerMatch = done
	case CupcakeCatch:
		s.CupcakeCatch = done
	case HeartJump:
		s.HeartJump = done
	}
	return s
}

// Merge applies p over s.
func (s GameState) Merge(p Partial) GameState {
	for id, done := range p {
		s = s.With(id, done)
	}
	return s
}

// CompletedCount returns how many games are done.
func (s GameState) CompletedCount() int {
	n := 0
	for _, id := range AllGames {
		if s.Completed(id) {
			n++
		}
	}
	return n
}

// AllCompleted reports whether every game is done.
func (s GameState) AllCompleted() bool {
	return s.FlowerMatch && s.CupcakeCatch && s.HeartJump
}

// RewardState is derived from a GameState and never stored.
type RewardState struct {
	Unlocked     map[GameID]bool
	Completed    int
	Total        int
	AllCompleted bool
}

// Rewards computes the reward unlocks for s.
func Rewards(s GameState) RewardState {
	r := RewardState{
		Unlocked:     make(map[GameID]bool, len(AllGames)),
		Completed:    s.CompletedCount(),
		Total:        len(AllGames),
		AllCompleted: s.AllCompleted(),
	}
	for _, id := range AllGames {
		r.Unlocked[id] = s.Completed(id)
	}
	return r
}

// Percent returns completion as a fraction in [0, 1].
func (r RewardState) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Completed) / float64(r.Total)
}
