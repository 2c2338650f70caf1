// Package replay re-runs an archived game one action at a time.
package replay

import (
	"errors"
	"fmt"

	"tycoon/internal/domain"
	"tycoon/internal/fairshuffle"
	"tycoon/internal/ports"
)

// ErrNoDeal is returned for records that carry neither the dealt hands nor a seed.
var ErrNoDeal = errors.New("record has no dealt hands and no seed")

// Step is the outcome of one logged action.
type Step struct {
	Index             int
	Action            domain.Action
	Cards             []domain.Card
	RevolutionToggled bool
	Cleared           domain.ClearReason
	// Game is the state right after the action. It is shared between steps.
	Game *domain.Game
}

// Plays reports whether the step played a card of the same rank and suit as c.
func (s Step) Plays(c domain.Card) bool {
	_, ok := domain.Hand(s.Cards).Match(c)
	return ok
}

// Deal rebuilds the initial state of a record. Recorded hands win over the seed,
// since a seeded shuffler shared by several games only reproduces the first deal.
func Deal(record ports.GameRecord) (*domain.Game, error) {
	if len(record.Hands) > 0 {
		hands := make([]domain.Hand, len(record.Hands))
		for i, h := range record.Hands {
			hands[i] = append(domain.Hand(nil), h...)
		}
		return domain.NewGameFromHands(hands), nil
	}
	if record.Seed != nil {
		return domain.NewGame(record.PlayerCount, fairshuffle.NewSeeded(*record.Seed))
	}
	return nil, ErrNoDeal
}

// Run deals the record and applies its actions in order, calling visit after
// each one. It stops at the first action that cannot be applied.
func Run(record ports.GameRecord, visit func(Step) error) (*domain.Game, error) {
	g, err := Deal(record)
	if err != nil {
		return nil, err
	}
	for i, a := range record.Actions {
		step := Step{Index: i, Action: a, Game: g}
		switch a.Kind {
		case domain.ActionPlay:
			res, err := g.AttemptPlay(a.Player, a.Cards)
			if err != nil {
				return g, &domain.ReplayError{Index: i, Action: a, Err: err}
			}
			step.Cards = res.Cards
			step.RevolutionToggled = res.RevolutionToggled
			step.Cleared = res.Cleared
		case domain.ActionPass:
			res, err := g.Pass(a.Player)
			if err != nil {
				return g, &domain.ReplayError{Index: i, Action: a, Err: err}
			}
			step.Cleared = res.Cleared
		default:
			return g, &domain.ReplayError{Index: i, Action: a, Err: fmt.Errorf("unknown action kind %q", a.Kind)}
		}
		if visit != nil {
			if err := visit(step); err != nil {
				return g, err
			}
		}
	}
	return g, nil
}
