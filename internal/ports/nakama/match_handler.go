package nakama

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"tycoon/internal/app"
	"tycoon/internal/config"
	"tycoon/internal/domain"
	"tycoon/internal/ports"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Session   *app.Session                `json:"-"` // Seats, game and action log of this table
	App       *app.Service                `json:"-"` // Tycoon app service with game logic
	Presences map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	Archive   ports.GameArchivePort       `json:"-"` // Where finished games are stored; nil disables archiving
	Tick      int64                       `json:"tick"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	open := ms.App.MaxPlayers() - len(ms.Session.Seats)
	if open < 0 {
		return 0
	}
	return open
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return len(ms.Session.Seats)
}

type matchHandler struct{}

func newMatchHandler() *matchHandler {
	return &matchHandler{}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := config.LoadGameConfig(configPath); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}
	cfg := applyEnvOverrides(config.GetGameConfig(), envFromContext(ctx), logger)
	cfg = applyMatchParams(cfg, params, logger)

	svc := app.NewServiceFromConfig(cfg)
	state := &MatchState{
		Session:   svc.NewSession(),
		App:       svc,
		Presences: make(map[string]runtime.Presence),
		Tick:      time.Now().Unix(),
	}
	if nk != nil {
		state.Archive = NewNakamaArchiveAdapter(nk)
	}

	label, err := matchLabel(state.GetOpenSeatsCount(), state.App.MaxPlayers(), string(state.Session.Phase))
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // actions are processed as they arrive; no timers run per tick
	return state, tickRate, label
}

func envFromContext(ctx context.Context) map[string]string {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	return env
}

// applyEnvOverrides layers runtime env settings over the file config. Invalid
// overrides are logged and ignored.
func applyEnvOverrides(cfg config.GameConfig, env map[string]string, logger runtime.Logger) config.GameConfig {
	if val, ok := env["tycoon_max_players"]; ok {
		next := cfg
		i, err := strconv.Atoi(val)
		if err == nil {
			next.MaxPlayers = i
			err = next.Validate()
		}
		if err != nil {
			logger.Warn("MatchInit: Ignoring tycoon_max_players=%q: %v", val, err)
		} else {
			cfg = next
		}
	}
	if val, ok := env["tycoon_shuffle_mode"]; ok {
		next := cfg
		next.ShuffleMode = val
		if err := next.Validate(); err != nil {
			logger.Warn("MatchInit: Ignoring tycoon_shuffle_mode=%q: %v", val, err)
		} else {
			cfg = next
		}
	}
	return cfg
}

// applyMatchParams applies the table size requested through quick_match.
func applyMatchParams(cfg config.GameConfig, params map[string]interface{}, logger runtime.Logger) config.GameConfig {
	raw, ok := params[paramMaxPlayers]
	if !ok {
		return cfg
	}
	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case float64:
		n = int(v)
	default:
		logger.Warn("MatchInit: Ignoring %s of type %T", paramMaxPlayers, raw)
		return cfg
	}
	next := cfg
	next.MaxPlayers = n
	if err := next.Validate(); err != nil {
		logger.Warn("MatchInit: Ignoring %s=%d: %v", paramMaxPlayers, n, err)
		return cfg
	}
	return next
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Seated players may always come back.
	if matchState.Session.SeatOf(presence.GetUserId()) != domain.NoPlayer {
		return state, true, ""
	}
	if matchState.Session.Phase == app.PhasePlaying {
		return state, false, "Game in progress"
	}
	if matchState.GetOpenSeatsCount() <= 0 {
		return state, false, "Match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	var reconnected []string
	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		wasSeated := matchState.Session.SeatOf(userID) != domain.NoPlayer
		seat, _, err := matchState.App.Join(matchState.Session, userID)
		if err != nil {
			logger.Warn("MatchJoin: User %s joined but could not take a seat: %v", userID, err)
			continue
		}
		if wasSeated {
			reconnected = append(reconnected, userID)
		}
		logger.Debug("MatchJoin: User %s seated at %d.", userID, seat)
	}

	mh.updateLabel(matchState, dispatcher, logger)

	// Broadcast the current match state to all presences after join.
	mh.broadcastMatchState(matchState, dispatcher, logger)

	if matchState.Session.Phase == app.PhasePlaying {
		for _, userID := range reconnected {
			mh.sendSnapshot(matchState, dispatcher, logger, userID)
		}
	}

	return matchState
}

// MatchLeave is called when one or more players leave the match. Seats stay
// reserved while a game is running so players can reconnect.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		if matchState.Session.Phase == app.PhasePlaying {
			logger.Debug("MatchLeave: User %s disconnected mid-game, seat kept.", userID)
			continue
		}
		events, err := matchState.App.Leave(matchState.Session, userID)
		if err != nil {
			logger.Warn("MatchLeave: User %s: %v", userID, err)
			continue
		}
		logger.Debug("MatchLeave: User %s left, seat freed.", userID)
		mh.broadcastEvents(ctx, matchState, dispatcher, logger, events)
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no connected players.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	// Messages arrive in order and are applied one at a time.
	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		case OpRequestSnapshot:
			mh.sendSnapshot(matchState, dispatcher, logger, msg.GetUserId())
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	return matchState
}

type playerState struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	DisplayName    string `json:"display_name"`
	IsOwner        bool   `json:"is_owner"`
	Connected      bool   `json:"connected"`
	CardsRemaining int    `json:"cards_remaining"`
}

type matchStateSnapshot struct {
	SessionID string        `json:"session_id"`
	Phase     string        `json:"phase"`
	Owner     string        `json:"owner"`
	Open      int           `json:"open"`
	Tick      int64         `json:"tick"`
	Players   []playerState `json:"players"`
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	sess := state.Session
	players := make([]playerState, 0, len(sess.Seats))
	for i, userID := range sess.Seats {
		displayName := userID
		p, connected := state.Presences[userID]
		if connected {
			displayName = p.GetUsername()
		}

		cardsRemaining := 0
		if sess.Game != nil && i < len(sess.Game.Hands) {
			cardsRemaining = len(sess.Game.Hands[i])
		}

		players = append(players, playerState{
			UserID:         userID,
			Seat:           i,
			DisplayName:    displayName,
			IsOwner:        userID == sess.Owner(),
			Connected:      connected,
			CardsRemaining: cardsRemaining,
		})
	}

	bytes, err := encodePayload(matchStateSnapshot{
		SessionID: sess.ID,
		Phase:     string(sess.Phase),
		Owner:     sess.Owner(),
		Open:      state.GetOpenSeatsCount(),
		Tick:      state.Tick,
		Players:   players,
	})
	if err != nil {
		logger.Error("Failed to marshal match state: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpPlayerJoined, bytes, nil, nil, true)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	logger.Info("StartGame: Request received from %s (seat=%d, owner=%s, occupied=%d)", senderID, state.Session.SeatOf(senderID), state.Session.Owner(), state.GetOccupiedSeatCount())

	events, err := state.App.StartGame(state.Session, senderID)
	if err != nil {
		logger.Warn("StartGame: User %s could not start the game: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	// Update match label to reflect playing state
	mh.updateLabel(state, dispatcher, logger)

	mh.broadcastEvents(ctx, state, dispatcher, logger, events)

	logger.Info("StartGame: Game started with %d players.", state.GetOccupiedSeatCount())
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	request, err := decodeRequest(msg.GetData())
	if err != nil {
		logger.Error("handlePlayCards: Failed to unmarshal request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}
	cardIDs, err := cardIDsFromRequest(request)
	if err != nil {
		logger.Warn("handlePlayCards: Bad card list from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	events, err := state.App.PlayCards(state.Session, senderID, cardIDs)
	if err != nil {
		var hand domain.Hand
		if state.Session.Game != nil {
			hand = state.Session.Game.HandOf(state.Session.SeatOf(senderID))
		}
		logger.Warn("handlePlayCards: User %s failed to play cards: %v. Requested: %v, Hand: %v", senderID, err, cardIDs, hand)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	events, err := state.App.PassTurn(state.Session, senderID)
	if err != nil {
		logger.Warn("handlePassTurn: User %s failed to pass turn: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	mh.broadcastEvents(ctx, state, dispatcher, logger, events)
}

func (mh *matchHandler) broadcastEvents(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64

	switch ev.Kind {
	case app.EventPlayerJoined:
		opCode = OpPlayerJoined
	case app.EventPlayerLeft:
		opCode = OpPlayerLeft
	case app.EventGameStarted:
		opCode = OpGameStarted
	case app.EventHandDealt:
		opCode = OpHandDealt
		p := ev.Payload.(app.HandDealtPayload)
		logger.Debug("Event: hand_dealt to %s (%d cards)", p.UserID, len(p.Hand))
	case app.EventCardPlayed:
		opCode = OpCardPlayed
	case app.EventTurnPassed:
		opCode = OpTurnPassed
	case app.EventPlayerFinished:
		opCode = OpPlayerFinished
	case app.EventGameEnded:
		opCode = OpGameEnded
		mh.archiveGame(ctx, state, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := encodePayload(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Private events for disconnected players must not fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)

	if ev.Kind == app.EventGameEnded {
		mh.updateLabel(state, dispatcher, logger)
	}
}

func (mh *matchHandler) archiveGame(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Archive == nil {
		return
	}
	if err := state.Archive.SaveGame(ctx, state.Session.Record()); err != nil {
		logger.Error("Failed to archive game %s: %v", state.Session.ID, err)
		return
	}
	logger.Info("Archived game %s (%d actions).", state.Session.ID, len(state.Session.Log))
}

func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send snapshot to %s: Presence not found", userID)
		return
	}
	bytes, err := encodePayload(state.App.Snapshot(state.Session, userID))
	if err != nil {
		logger.Error("Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpSnapshot, bytes, []runtime.Presence{presence}, nil, true)
}

type gameErrorEvent struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// sendError sends a game error event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, err error) {
	payload := gameErrorEvent{
		Code:    errCodeRejected,
		Reason:  app.ErrorCode(err),
		Message: err.Error(),
	}
	if !app.IsClientError(err) {
		payload.Code = errCodeInternal
	}
	bytes, err := encodePayload(payload)
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state.GetOpenSeatsCount(), state.App.MaxPlayers(), string(state.Session.Phase))
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
