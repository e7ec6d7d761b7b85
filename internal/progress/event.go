package progress

// Source tells subscribers who published an Event.
type Source string

const (
	// SourceStore events follow every successful write.
	SourceStore Source = "store"
	// SourceCompletion events follow every completion attempt, saved or not.
	SourceCompletion Source = "completion"
)

// Event is the cross-component "state changed" notification. Receivers
// re-read the store; the payload only says why.
type Event struct {
	Source    Source
	GameID    GameID
	Completed bool
	Saved     bool
	Token     int64
}
