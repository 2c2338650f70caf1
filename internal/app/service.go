package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tycoon/internal/config"
	"tycoon/internal/domain"
	"tycoon/internal/fairshuffle"
)

// Options tunes a Service. Zero values fall back to defaults.
type Options struct {
	MinPlayers int
	MaxPlayers int
	Shuffler   domain.Shuffler
	// Seed is stored with each session when Shuffler was built from it.
	Seed *int64
}

// Service contains Tycoon use-cases operating on sessions. It does not lock;
// callers serialize access to a session.
type Service struct {
	minPlayers int
	maxPlayers int
	shuffler   domain.Shuffler
	seed       *int64
	now        func() time.Time
}

// NewService constructs a Service. A nil shuffler uses the crypto shuffler.
func NewService(opts Options) *Service {
	s := &Service{
		minPlayers: opts.MinPlayers,
		maxPlayers: opts.MaxPlayers,
		shuffler:   opts.Shuffler,
		seed:       opts.Seed,
		now:        time.Now,
	}
	if s.minPlayers < MinPlayersToStartGame {
		s.minPlayers = MinPlayersToStartGame
	}
	if s.maxPlayers < s.minPlayers {
		s.maxPlayers = DefaultMaxPlayers
	}
	if s.shuffler == nil {
		s.shuffler = fairshuffle.New()
	}
	return s
}

// NewServiceFromConfig builds a Service from the game configuration.
func NewServiceFromConfig(c config.GameConfig) *Service {
	opts := Options{
		MinPlayers: c.MinPlayers,
		MaxPlayers: c.MaxPlayers,
		Shuffler:   c.NewShuffler(),
	}
	if c.ShuffleMode == config.ShuffleSeeded {
		seed := c.Seed
		opts.Seed = &seed
	}
	return NewService(opts)
}

var (
	ErrNotOwner       = errors.New("actor is not session owner")
	ErrNotInLobby     = errors.New("session not in lobby")
	ErrNotPlaying     = errors.New("session not in playing phase")
	ErrTableFull      = errors.New("table is full")
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrUnknownPlayer  = errors.New("player not found")
	ErrPlayerFinished = errors.New("player already finished")
)

// NewSession opens an empty lobby.
func (s *Service) NewSession() *Session {
	return &Session{ID: uuid.NewString(), Phase: PhaseLobby}
}

// MaxPlayers returns the seat limit of a table.
func (s *Service) MaxPlayers() int {
	return s.maxPlayers
}

// Join seats userID. A user who is already seated keeps their seat.
func (s *Service) Join(sess *Session, userID string) (int, []Event, error) {
	if userID == "" {
		return domain.NoPlayer, nil, ErrUnknownPlayer
	}
	if seat := sess.SeatOf(userID); seat != domain.NoPlayer {
		return seat, nil, nil
	}
	if sess.Phase == PhasePlaying {
		return domain.NoPlayer, nil, ErrNotInLobby
	}
	if len(sess.Seats) >= s.maxPlayers {
		return domain.NoPlayer, nil, ErrTableFull
	}

	sess.resetEndedGame()
	sess.Seats = append(sess.Seats, userID)
	seat := len(sess.Seats) - 1
	return seat, []Event{{
		Kind:    EventPlayerJoined,
		Payload: PlayerJoinedPayload{UserID: userID, Seat: seat, Owner: seat == 0},
	}}, nil
}

// Leave frees userID's seat. Seats are fixed while a game is running; leaving
// after a game ended returns the session to the lobby.
func (s *Service) Leave(sess *Session, userID string) ([]Event, error) {
	seat := sess.SeatOf(userID)
	if seat == domain.NoPlayer {
		return nil, ErrUnknownPlayer
	}
	if sess.Phase == PhasePlaying {
		return nil, ErrNotInLobby
	}
	sess.resetEndedGame()
	sess.Seats = append(sess.Seats[:seat], sess.Seats[seat+1:]...)
	return []Event{{Kind: EventPlayerLeft, Payload: PlayerLeftPayload{UserID: userID}}}, nil
}

// StartGame deals a new game for the seated players. Only the owner may start,
// either from the lobby or after the previous game ended.
func (s *Service) StartGame(sess *Session, actorUserID string) ([]Event, error) {
	if sess.SeatOf(actorUserID) == domain.NoPlayer {
		return nil, ErrUnknownPlayer
	}
	if sess.Owner() != actorUserID {
		return nil, ErrNotOwner
	}
	if sess.Phase == PhasePlaying {
		return nil, ErrNotInLobby
	}
	if len(sess.Seats) < s.minPlayers {
		return nil, ErrTooFewPlayers
	}

	game, err := domain.NewGame(len(sess.Seats), s.shuffler)
	if err != nil {
		return nil, fmt.Errorf("deal: %w", err)
	}

	sess.Game = game
	sess.GameID = uuid.NewString()
	sess.Phase = PhasePlaying
	sess.InitialHands = make([]domain.Hand, len(game.Hands))
	for i, h := range game.Hands {
		sess.InitialHands[i] = append(domain.Hand(nil), h...)
	}
	sess.FinishOrder = nil
	sess.Log = nil
	sess.Seed = s.seed
	sess.EndedAt = time.Time{}

	events := make([]Event, 0, len(sess.Seats)+1)
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			SessionID:       sess.ID,
			GameID:          sess.GameID,
			Seats:           append([]string(nil), sess.Seats...),
			FirstTurnUserID: sess.userAt(game.CurrentPlayer),
		},
	})
	for seat, userID := range sess.Seats {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: userID, Hand: game.HandOf(seat)},
			Recipients: []string{userID},
		})
	}
	return events, nil
}

// PlayCards processes a play action and emits resulting events. Rule
// violations are returned as domain.RejectReason and leave the session unchanged.
func (s *Service) PlayCards(sess *Session, actorUserID string, cards []domain.CardID) ([]Event, error) {
	seat, err := s.actingSeat(sess, actorUserID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Game.AttemptPlay(seat, cards)
	if _, rejected := domain.AsReject(err); rejected {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("play cards: %w", err)
	}
	ids := make([]domain.CardID, len(res.Cards))
	for i, c := range res.Cards {
		ids[i] = c.ID
	}
	sess.Log = append(sess.Log, domain.Action{Kind: domain.ActionPlay, Player: seat, Cards: ids})

	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			UserID:            actorUserID,
			Cards:             res.Cards,
			CardsLeft:         len(sess.Game.Hands[seat]),
			Revolution:        sess.Game.Revolution,
			RevolutionToggled: res.RevolutionToggled,
			TableCleared:      clearedLabel(res.Cleared),
			NextTurnUserID:    sess.userAt(res.NextPlayer),
		},
	}}
	return append(events, s.settle(sess, seat)...), nil
}

// PassTurn gives up the actor's turn.
func (s *Service) PassTurn(sess *Session, actorUserID string) ([]Event, error) {
	seat, err := s.actingSeat(sess, actorUserID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Game.Pass(seat)
	if _, rejected := domain.AsReject(err); rejected {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("pass turn: %w", err)
	}
	sess.Log = append(sess.Log, domain.Action{Kind: domain.ActionPass, Player: seat})

	return []Event{{
		Kind: EventTurnPassed,
		Payload: TurnPassedPayload{
			UserID:         actorUserID,
			TableCleared:   clearedLabel(res.Cleared),
			NextTurnUserID: sess.userAt(res.NextPlayer),
		},
	}}, nil
}

// Snapshot returns the session as seen by userID. Users without a seat see no hand.
func (s *Service) Snapshot(sess *Session, userID string) SessionSnapshot {
	seat := sess.SeatOf(userID)
	snap := SessionSnapshot{
		SessionID:   sess.ID,
		GameID:      sess.GameID,
		Phase:       sess.Phase,
		Seats:       append([]string(nil), sess.Seats...),
		Seat:        seat,
		FinishOrder: append([]string(nil), sess.FinishOrder...),
	}
	if sess.Game == nil {
		return snap
	}
	game := sess.Game.Snapshot(seat)
	snap.Game = &game
	if sess.Phase == PhasePlaying && seat != domain.NoPlayer && sess.Game.CurrentPlayer == seat {
		snap.Playable = sess.Game.Playable(seat)
	}
	return snap
}

func (s *Service) actingSeat(sess *Session, userID string) (int, error) {
	if sess.Phase != PhasePlaying || sess.Game == nil {
		return domain.NoPlayer, ErrNotPlaying
	}
	seat := sess.SeatOf(userID)
	if seat == domain.NoPlayer {
		return seat, ErrUnknownPlayer
	}
	if sess.finished(userID) {
		return seat, ErrPlayerFinished
	}
	return seat, nil
}

// settle records players who went out and ends the game once at most one
// player still holds cards.
func (s *Service) settle(sess *Session, seat int) []Event {
	var events []Event
	userID := sess.userAt(seat)
	if len(sess.Game.Hands[seat]) == 0 && !sess.finished(userID) {
		sess.FinishOrder = append(sess.FinishOrder, userID)
		events = append(events, Event{
			Kind:    EventPlayerFinished,
			Payload: PlayerFinishedPayload{UserID: userID, Place: len(sess.FinishOrder)},
		})
	}

	if sess.Game.PlayersWithCards() > 1 {
		return events
	}
	for i, h := range sess.Game.Hands {
		if len(h) > 0 {
			sess.FinishOrder = append(sess.FinishOrder, sess.userAt(i))
		}
	}
	sess.Phase = PhaseEnded
	sess.EndedAt = s.now()
	return append(events, Event{
		Kind:    EventGameEnded,
		Payload: GameEndedPayload{FinishOrder: append([]string(nil), sess.FinishOrder...)},
	})
}

func clearedLabel(r domain.ClearReason) string {
	if r == domain.ClearNone {
		return ""
	}
	return r.String()
}
