package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"tycoon/internal/app"
	"tycoon/internal/ports"
	"tycoon/internal/wire"
)

var (
	ErrUnknownTable      = errors.New("table not found")
	ErrTableClosed       = errors.New("table closed")
	ErrExpectedJoin      = errors.New("first message must be join")
	ErrUnexpectedMessage = errors.New("unexpected message type")
)

const (
	sendBuffer     = 64
	writeTimeout   = 5 * time.Second
	archiveTimeout = 5 * time.Second
)

// Options wires the server to the game use-cases and their collaborators.
type Options struct {
	Service *app.Service
	// Tokens signs seat tokens. Nil uses a random secret valid for this process.
	Tokens *app.SeatTokenService
	// Archive receives every finished game. Nil disables archiving.
	Archive ports.GameArchivePort
}

// ServerState holds the open tables. Each table runs in its own goroutine,
// which is the only place its session is touched.
type ServerState struct {
	Address string

	ctx   context.Context
	opts  Options
	mu    sync.Mutex
	rooms map[string]*room
}

// NewServerState creates the table registry. Tables stop when ctx is done.
func NewServerState(ctx context.Context, opts Options) *ServerState {
	if opts.Service == nil {
		opts.Service = app.NewService(app.Options{})
	}
	if opts.Tokens == nil {
		klog.Warningf("No seat token secret configured, using a random one")
		opts.Tokens = app.NewSeatTokenService(uuid.NewString(), time.Hour)
	}
	return &ServerState{
		ctx:   ctx,
		opts:  opts,
		rooms: make(map[string]*room),
	}
}

// TableIDs lists the open tables.
func (s *ServerState) TableIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}

// openRoom returns the table with the given ID, or opens a new one when
// tableID is empty.
func (s *ServerState) openRoom(tableID string) (*room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tableID != "" {
		r, ok := s.rooms[tableID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTable, tableID)
		}
		return r, nil
	}

	r := newRoom(s, s.opts.Service.NewSession())
	s.rooms[r.id] = r
	go r.run(s.ctx)
	klog.V(1).Infof("Opened table %s", r.id)
	return r, nil
}

func (s *ServerState) forget(r *room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rooms[r.id] == r {
		delete(s.rooms, r.id)
	}
}

// HandleWS upgrades the request and serves one player connection. The first
// message must be a join; every later message is handed to the player's table.
func (s *ServerState) HandleWS(w http.ResponseWriter, req *http.Request) {
	conn, err := websocket.Accept(w, req, nil)
	if err != nil {
		klog.Errorf("websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := s.ctx
	var msg wire.Message
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		klog.V(1).Infof("read join: %v", err)
		return
	}
	join, err := parseJoin(msg)
	if err != nil {
		s.reject(ctx, conn, err)
		return
	}

	r, err := s.openRoom(join.TableID)
	if err != nil {
		s.reject(ctx, conn, err)
		return
	}

	c := newClient(join.UserID, conn)
	go c.writeLoop()
	defer c.stop()

	var joinErr error
	if err := r.do(func() { joinErr = r.join(c, join.Token) }); err != nil {
		joinErr = err
	}
	if joinErr != nil {
		c.deliver(errorMessage(joinErr))
		if !isClientError(joinErr) {
			klog.Errorf("join table %s: %v", r.id, joinErr)
		}
		// A table opened for this join and left empty is closed again.
		_ = r.do(func() { r.stopIfEmpty() })
		return
	}
	defer r.do(func() { r.disconnect(c) })

	for {
		var msg wire.Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 {
				klog.V(1).Infof("table %s: %s disconnected: %v", r.id, c.userID, err)
			}
			return
		}
		var left bool
		if err := r.do(func() { left = r.handle(c, msg) }); err != nil {
			c.deliver(errorMessage(err))
			return
		}
		if left {
			return
		}
	}
}

func parseJoin(msg wire.Message) (*wire.JoinMessage, error) {
	if msg.Type != wire.MsgTypeJoin {
		return nil, ErrExpectedJoin
	}
	parsed, err := msg.Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpectedJoin, err)
	}
	return parsed.(*wire.JoinMessage), nil
}

// reject answers a connection that never reached a table.
func (s *ServerState) reject(ctx context.Context, conn *websocket.Conn, err error) {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if werr := wsjson.Write(writeCtx, conn, errorMessage(err)); werr != nil {
		klog.V(1).Infof("write error reply: %v", werr)
	}
	conn.Close(websocket.StatusPolicyViolation, errorCode(err))
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTable):
		return "unknown_table"
	case errors.Is(err, ErrTableClosed):
		return "table_closed"
	case errors.Is(err, ErrExpectedJoin):
		return "expected_join"
	case errors.Is(err, ErrUnexpectedMessage):
		return "unexpected_message"
	}
	return app.ErrorCode(err)
}

func isClientError(err error) bool {
	return errorCode(err) != "internal"
}

func errorMessage(err error) wire.Message {
	if !isClientError(err) {
		return wire.NewErrorMessage("internal", "internal error")
	}
	return wire.NewErrorMessage(errorCode(err), err.Error())
}
