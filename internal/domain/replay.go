package domain

import "fmt"

// ActionKind distinguishes the two player actions.
type ActionKind string

const (
	ActionPlay ActionKind = "play"
	ActionPass ActionKind = "pass"
)

// Action is one entry of a game's action log.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Player int        `json:"player"`
	Cards  []CardID   `json:"cards,omitempty"`
}

// Apply performs a logged action against the game.
func (g *Game) Apply(a Action) error {
	switch a.Kind {
	case ActionPlay:
		_, err := g.AttemptPlay(a.Player, a.Cards)
		return err
	case ActionPass:
		_, err := g.Pass(a.Player)
		return err
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
}

// ReplayError reports the first log entry that could not be applied.
type ReplayError struct {
	Index  int
	Action Action
	Err    error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("action %d (%s by player %d): %v", e.Index, e.Action.Kind, e.Action.Player, e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }

// ApplyAll applies actions in order and stops at the first failure.
func (g *Game) ApplyAll(actions []Action) error {
	for i, a := range actions {
		if err := g.Apply(a); err != nil {
			return &ReplayError{Index: i, Action: a, Err: err}
		}
	}
	return nil
}

// Replay deals a new game with shuffler and applies actions in order. Given the
// same shuffle, the resulting state is identical to the original game.
func Replay(playerCount int, shuffler Shuffler, actions []Action) (*Game, error) {
	g, err := NewGame(playerCount, shuffler)
	if err != nil {
		return nil, err
	}
	return g, g.ApplyAll(actions)
}

// ReplayHands is Replay for a game whose initial deal was recorded.
func ReplayHands(hands []Hand, actions []Action) (*Game, error) {
	dealt := make([]Hand, len(hands))
	for i, h := range hands {
		dealt[i] = append(Hand(nil), h...)
	}
	g := NewGameFromHands(dealt)
	return g, g.ApplyAll(actions)
}
