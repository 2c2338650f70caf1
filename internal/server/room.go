package server

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"

	"tycoon/internal/app"
	"tycoon/internal/domain"
	"tycoon/internal/wire"
)

// room is one table. All session access happens on the goroutine in run;
// other goroutines submit work through do.
type room struct {
	id      string
	server  *ServerState
	sess    *app.Session
	clients map[string]*client
	cmds    chan func()
	done    chan struct{}
	stopped bool
}

func newRoom(s *ServerState, sess *app.Session) *room {
	return &room{
		id:      sess.ID,
		server:  s,
		sess:    sess,
		clients: make(map[string]*client),
		cmds:    make(chan func()),
		done:    make(chan struct{}),
	}
}

func (r *room) run(ctx context.Context) {
	defer close(r.done)
	defer r.server.forget(r)
	for {
		select {
		case fn := <-r.cmds:
			fn()
			if r.stopped {
				klog.V(1).Infof("Closed table %s", r.id)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// do runs fn on the table goroutine and waits for it to finish.
func (r *room) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case r.cmds <- func() { fn(); close(finished) }:
	case <-r.done:
		return ErrTableClosed
	}
	<-finished
	return nil
}

// join seats c. A user who already holds a seat must present a valid seat token
// for this table; the new connection then replaces the old one.
func (r *room) join(c *client, token string) error {
	svc, tokens := r.server.opts.Service, r.server.opts.Tokens
	seat := r.sess.SeatOf(c.userID)
	if token != "" || seat != domain.NoPlayer {
		claims, err := tokens.Verify(r.sess.ID, token)
		if err != nil {
			return err
		}
		if claims.Subject != c.userID || (seat != domain.NoPlayer && seat != claims.Seat) {
			return app.ErrInvalidSeatToken
		}
	}

	seat, events, err := svc.Join(r.sess, c.userID)
	if err != nil {
		return err
	}
	issued, err := tokens.Issue(r.sess.ID, c.userID, seat)
	if err != nil {
		return fmt.Errorf("issue seat token: %w", err)
	}

	if old, ok := r.clients[c.userID]; ok {
		// The old peer may have stopped reading, so skip the close handshake.
		old.conn.CloseNow()
	}
	r.clients[c.userID] = c
	joined, err := wire.NewMessage(wire.MsgTypeJoined, wire.JoinedMessage{
		TableID: r.id,
		UserID:  c.userID,
		Seat:    seat,
		Token:   issued,
	})
	if err != nil {
		return err
	}
	c.deliver(joined)
	klog.Infof("table %s: %s took seat %d", r.id, c.userID, seat)

	r.publish(events)
	if len(events) == 0 {
		r.sendState(c)
	}
	return nil
}

// handle applies one client request. It reports whether the client left the table.
func (r *room) handle(c *client, msg wire.Message) bool {
	if r.clients[c.userID] != c {
		c.deliver(errorMessage(app.ErrUnknownPlayer))
		return true
	}
	svc := r.server.opts.Service

	parsed, err := msg.Parse()
	if err != nil {
		c.deliver(errorMessage(fmt.Errorf("%w: %v", ErrUnexpectedMessage, err)))
		return false
	}

	var events []app.Event
	left := false
	switch m := parsed.(type) {
	case *wire.StartMessage:
		events, err = svc.StartGame(r.sess, c.userID)
	case *wire.PlayMessage:
		events, err = svc.PlayCards(r.sess, c.userID, m.CardIDs)
	case *wire.PassMessage:
		events, err = svc.PassTurn(r.sess, c.userID)
	case *wire.LeaveMessage:
		events, err = svc.Leave(r.sess, c.userID)
		left = err == nil
	case *wire.SnapshotMessage:
		r.sendState(c)
		return false
	default:
		err = fmt.Errorf("%w: %s", ErrUnexpectedMessage, msg.Type)
	}
	if err != nil {
		if !isClientError(err) {
			klog.Errorf("table %s: %s %s: %v", r.id, c.userID, msg.Type, err)
		}
		c.deliver(errorMessage(err))
		return false
	}

	if left {
		delete(r.clients, c.userID)
		r.sendEvents(c, events)
		klog.Infof("table %s: %s left", r.id, c.userID)
	}
	if r.sess.Phase == app.PhaseEnded && endsGame(events) {
		r.archive()
	}
	r.publish(events)
	if left {
		r.stopIfEmpty()
	}
	return left
}

// disconnect drops c. In the lobby its seat is freed; during a game the seat is
// kept so the player can reconnect with a seat token.
func (r *room) disconnect(c *client) {
	if r.clients[c.userID] != c {
		return
	}
	delete(r.clients, c.userID)
	klog.Infof("table %s: %s disconnected", r.id, c.userID)
	if r.sess.Phase != app.PhasePlaying {
		if events, err := r.server.opts.Service.Leave(r.sess, c.userID); err == nil {
			r.publish(events)
		}
	}
	r.stopIfEmpty()
}

func (r *room) stopIfEmpty() {
	if len(r.clients) == 0 {
		r.stopped = true
	}
}

// publish sends events to their recipients and then refreshes every
// connected player's view of the table.
func (r *room) publish(events []app.Event) {
	if len(events) == 0 {
		return
	}
	for _, c := range r.clients {
		r.sendEvents(c, events)
		r.sendState(c)
	}
}

func (r *room) sendEvents(c *client, events []app.Event) {
	for _, e := range events {
		if !addressedTo(e, c.userID) {
			continue
		}
		msg, err := wire.NewEventMessage(e)
		if err != nil {
			klog.Errorf("table %s: %v", r.id, err)
			continue
		}
		c.deliver(msg)
	}
}

func (r *room) sendState(c *client) {
	snap := r.server.opts.Service.Snapshot(r.sess, c.userID)
	msg, err := wire.NewMessage(wire.MsgTypeState, wire.StateMessage{SessionSnapshot: snap})
	if err != nil {
		klog.Errorf("table %s: snapshot: %v", r.id, err)
		return
	}
	c.deliver(msg)
}

func (r *room) archive() {
	archive := r.server.opts.Archive
	if archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(r.server.ctx, archiveTimeout)
	defer cancel()
	if err := archive.SaveGame(ctx, r.sess.Record()); err != nil {
		klog.Errorf("table %s: archive game: %v", r.id, err)
		return
	}
	klog.V(1).Infof("table %s: archived game", r.id)
}

func addressedTo(e app.Event, userID string) bool {
	if len(e.Recipients) == 0 {
		return true
	}
	for _, id := range e.Recipients {
		if id == userID {
			return true
		}
	}
	return false
}

func endsGame(events []app.Event) bool {
	for _, e := range events {
		if e.Kind == app.EventGameEnded {
			return true
		}
	}
	return false
}
