package domain

// NoPlayer marks an unset player index.
const NoPlayer = -1

// Game is the complete mutable state of one Tycoon deal. It is not safe for
// concurrent use; callers serialize actions.
type Game struct {
	Hands               []Hand `json:"hands"`
	Table               Table  `json:"table"`
	CurrentPlayer       int    `json:"current_player"`
	LastPlayerToPlay    int    `json:"last_player_to_play"`
	PassesSinceLastPlay int    `json:"passes_since_last_play"`
	Revolution          bool   `json:"revolution"`
	PendingRoundStarter int    `json:"pending_round_starter"`
}

// PlayResult describes the transition caused by an accepted play.
type PlayResult struct {
	Player            int
	Cards             []Card
	RevolutionToggled bool
	Cleared           ClearReason
	NextPlayer        int
}

// PassResult describes the transition caused by a pass.
type PassResult struct {
	Player     int
	Cleared    ClearReason
	NextPlayer int
}

// NewGame shuffles a standard deck, deals it and hands the first turn to player 0.
func NewGame(playerCount int, shuffler Shuffler) (*Game, error) {
	hands, err := Deal(ShuffleDeck(BuildStandardDeck(), shuffler), playerCount)
	if err != nil {
		return nil, err
	}
	return NewGameFromHands(hands), nil
}

// NewGameFromHands starts a game from already dealt hands.
func NewGameFromHands(hands []Hand) *Game {
	return &Game{
		Hands:               hands,
		CurrentPlayer:       0,
		LastPlayerToPlay:    NoPlayer,
		PendingRoundStarter: NoPlayer,
	}
}

// PlayerCount returns the number of seats dealt in.
func (g *Game) PlayerCount() int {
	return len(g.Hands)
}

// PlayersWithCards counts the players who have not gone out.
func (g *Game) PlayersWithCards() int {
	n := 0
	for _, h := range g.Hands {
		if len(h) > 0 {
			n++
		}
	}
	return n
}

// HandOf returns a copy of a player's hand.
func (g *Game) HandOf(player int) Hand {
	if player < 0 || player >= len(g.Hands) {
		return nil
	}
	return append(Hand(nil), g.Hands[player]...)
}

// AttemptPlay plays the given card instances for actor. On rejection the game is unchanged.
func (g *Game) AttemptPlay(actor int, ids []CardID) (PlayResult, error) {
	if actor != g.CurrentPlayer {
		return PlayResult{}, NotYourTurn
	}

	hand := g.Hands[actor]
	candidate := make([]Card, len(ids))
	for i, id := range ids {
		c, ok := hand.Find(id)
		if !ok {
			// Left unresolved; ValidatePlay reports it as not owned after the size checks.
			c = Card{ID: id}
		}
		candidate[i] = c
	}

	prevTop, _ := g.Table.TopSet()
	if err := ValidatePlay(candidate, hand, prevTop, g.Revolution); err != nil {
		return PlayResult{}, err
	}

	rest, err := hand.Remove(candidate)
	if err != nil {
		return PlayResult{}, err
	}
	g.Hands[actor] = rest
	g.Table.PushSet(candidate)

	res := PlayResult{Player: actor, Cards: candidate}
	if triggersRevolution(candidate) {
		g.Revolution = !g.Revolution
		res.RevolutionToggled = true
	}

	g.LastPlayerToPlay = actor
	g.PassesSinceLastPlay = 0
	if reason := clearTrigger(candidate, prevTop); reason != ClearNone {
		g.clearTable(actor)
		res.Cleared = reason
	}

	cleared, err := g.advanceTurn()
	if res.Cleared == ClearNone {
		res.Cleared = cleared
	}
	res.NextPlayer = g.CurrentPlayer
	return res, err
}

// Pass gives up the turn. Once a play has happened, a full circle of passes
// returns the lead to the last player who played.
func (g *Game) Pass(actor int) (PassResult, error) {
	if actor != g.CurrentPlayer {
		return PassResult{}, NotYourTurn
	}

	res := PassResult{Player: actor}
	if g.hasPlayed() {
		g.PassesSinceLastPlay++
		if g.PassesSinceLastPlay >= len(g.Hands)-1 {
			g.clearTable(g.LastPlayerToPlay)
			res.Cleared = ClearByPassCircle
		}
	}

	cleared, err := g.advanceTurn()
	if res.Cleared == ClearNone {
		res.Cleared = cleared
	}
	res.NextPlayer = g.CurrentPlayer
	return res, err
}

func (g *Game) hasPlayed() bool {
	return g.LastPlayerToPlay != NoPlayer
}

func (g *Game) clearTable(starter int) {
	g.Table.Clear()
	g.PendingRoundStarter = starter
	g.PassesSinceLastPlay = 0
}

// advanceTurn moves CurrentPlayer to whoever acts next. It reports a pass
// circle that closed while skipping players who are out.
func (g *Game) advanceTurn() (ClearReason, error) {
	cleared := ClearNone
	if g.PendingRoundStarter == NoPlayer {
		if err := g.rotate(); err != nil {
			return ClearNone, err
		}
		if !g.hasPlayed() || g.PassesSinceLastPlay < len(g.Hands)-1 {
			return ClearNone, nil
		}
		g.clearTable(g.LastPlayerToPlay)
		cleared = ClearByPassCircle
	}
	return cleared, g.takeLead()
}

// takeLead hands the turn to the pending round starter, or to the next player
// holding cards when the starter has gone out.
func (g *Game) takeLead() error {
	n := len(g.Hands)
	starter := g.PendingRoundStarter
	g.PendingRoundStarter = NoPlayer
	for i := 0; i < n; i++ {
		p := (starter + i) % n
		if len(g.Hands[p]) > 0 {
			g.CurrentPlayer = p
			return nil
		}
	}
	g.CurrentPlayer = starter
	return ErrNoActivePlayers
}

// rotate passes the turn to the next player holding cards. Skipping a player
// who is out counts as their pass once a play has happened.
func (g *Game) rotate() error {
	n := len(g.Hands)
	for i := 0; i < n; i++ {
		g.CurrentPlayer = (g.CurrentPlayer + 1) % n
		if len(g.Hands[g.CurrentPlayer]) > 0 {
			return nil
		}
		if g.hasPlayed() {
			g.PassesSinceLastPlay++
		}
	}
	return ErrNoActivePlayers
}

// Snapshot is the observable state for one viewer. Other players' hands are
// reduced to their sizes.
type Snapshot struct {
	Viewer              int      `json:"viewer"`
	Hand                []Card   `json:"hand,omitempty"`
	HandSizes           []int    `json:"hand_sizes"`
	Table               [][]Card `json:"table"`
	CurrentPlayer       int      `json:"current_player"`
	LastPlayerToPlay    int      `json:"last_player_to_play"`
	PassesSinceLastPlay int      `json:"passes_since_last_play"`
	Revolution          bool     `json:"revolution"`
}

// Snapshot returns the state as seen by viewer. A viewer outside the table sees no hand.
func (g *Game) Snapshot(viewer int) Snapshot {
	sizes := make([]int, len(g.Hands))
	for i, h := range g.Hands {
		sizes[i] = len(h)
	}
	table := make([][]Card, len(g.Table.Sets))
	for i, set := range g.Table.Sets {
		table[i] = append([]Card(nil), set...)
	}
	return Snapshot{
		Viewer:              viewer,
		Hand:                g.HandOf(viewer),
		HandSizes:           sizes,
		Table:               table,
		CurrentPlayer:       g.CurrentPlayer,
		LastPlayerToPlay:    g.LastPlayerToPlay,
		PassesSinceLastPlay: g.PassesSinceLastPlay,
		Revolution:          g.Revolution,
	}
}
