package server

import (
	"context"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"k8s.io/klog/v2"

	"tycoon/internal/wire"
)

// client is one player connection. Messages are queued on send and written by
// writeLoop, so a slow reader never blocks its table.
type client struct {
	userID string
	conn   *websocket.Conn
	send   chan wire.Message
	done   chan struct{}
	once   sync.Once
}

func newClient(userID string, conn *websocket.Conn) *client {
	return &client{
		userID: userID,
		conn:   conn,
		send:   make(chan wire.Message, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *client) writeLoop() {
	defer close(c.done)
	for msg := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := wsjson.Write(ctx, c.conn, msg)
		cancel()
		if err != nil {
			klog.V(1).Infof("write to %s: %v", c.userID, err)
			c.conn.CloseNow()
			// Keep draining so senders never block.
			for range c.send {
			}
			return
		}
	}
}

// deliver queues msg. A client whose queue is full is disconnected.
func (c *client) deliver(msg wire.Message) {
	select {
	case c.send <- msg:
	default:
		klog.Warningf("dropping slow client %s", c.userID)
		c.conn.CloseNow()
	}
}

// stop flushes queued messages and ends writeLoop.
func (c *client) stop() {
	c.once.Do(func() { close(c.send) })
	<-c.done
}
