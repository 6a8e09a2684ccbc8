package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
	"github.com/Gilson1506/CCALLASPROJET/pkg/auth"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 30 * time.Second
	wsReadLimit      = 64 << 10
	wsSendBuffer     = 64
	wsMaxChannels    = 16
	notificationChan = "admin-notifications"
)

// Client commands.
const (
	cmdSubscribe   = "subscribe"
	cmdUnsubscribe = "unsubscribe"
	cmdPing        = "ping"
)

// Server frame types.
const (
	frameAck          = "subscribe.ack"
	frameChange       = "change"
	frameStatus       = "status"
	frameNotification = "notification"
	framePong         = "pong"
	frameError        = "error"
)

type wsCommand struct {
	Type    string           `json:"type"`
	Channel string           `json:"channel"`
	Topics  []realtime.Topic `json:"topics,omitempty"`
}

type wsFrame struct {
	Type         string              `json:"type"`
	Channel      string              `json:"channel,omitempty"`
	Change       *realtime.Change    `json:"change,omitempty"`
	Status       realtime.Status     `json:"status,omitempty"`
	Notification *model.Notification `json:"notification,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// RealtimeHandler serves GET /api/realtime. It must run after OptionalAuth
// and AdminMiddleware so the admin flag is in the request context.
type RealtimeHandler struct {
	subscriber service.ChangeSubscriber
	feed       NotificationSource
	upgrader   websocket.Upgrader
}

// NewRealtimeHandler creates the handler. originAllowed decides which
// browser origins may open a socket.
func NewRealtimeHandler(subscriber service.ChangeSubscriber, feed NotificationSource, originAllowed func(string) bool) *RealtimeHandler {
	return &RealtimeHandler{
		subscriber: subscriber,
		feed:       feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no Origin
				return origin == "" || originAllowed(origin)
			},
		},
	}
}

func (h *RealtimeHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}
	c := &wsConn{
		h:       h,
		conn:    conn,
		isAdmin: auth.IsAdminFromContext(r.Context()),
		send:    make(chan wsFrame, wsSendBuffer),
		done:    make(chan struct{}),
		cancels: make(map[string]func()),
	}
	slog.Debug("websocket connected", "remote_addr", r.RemoteAddr, "admin", c.isAdmin)
	go c.writePump()
	c.readPump()
}

// wsConn is one socket and the channels it opened.
type wsConn struct {
	h       *RealtimeHandler
	conn    *websocket.Conn
	isAdmin bool
	send    chan wsFrame
	done    chan struct{}

	mu      sync.Mutex
	cancels map[string]func()
	wg      sync.WaitGroup
}

func (c *wsConn) push(f wsFrame) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- f:
	case <-c.done:
	default:
		slog.Warn("websocket send buffer full, dropping frame", "type", f.Type, "channel", f.Channel)
	}
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case f := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsConn) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(wsReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))

		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.push(wsFrame{Type: frameError, Error: "invalid_json"})
			continue
		}
		c.handle(cmd)
	}
}

func (c *wsConn) handle(cmd wsCommand) {
	switch cmd.Type {
	case cmdPing:
		c.push(wsFrame{Type: framePong})
	case cmdSubscribe:
		c.subscribe(cmd)
	case cmdUnsubscribe:
		c.unsubscribe(cmd.Channel)
	default:
		c.push(wsFrame{Type: frameError, Channel: cmd.Channel, Error: "unknown_command"})
	}
}

// allowed reports whether the connection may open cmd. Anonymous sockets
// only follow one chat session's messages.
func (c *wsConn) allowed(cmd wsCommand) bool {
	if c.isAdmin {
		return true
	}
	if cmd.Channel == notificationChan || len(cmd.Topics) == 0 {
		return false
	}
	for _, t := range cmd.Topics {
		if t.Table != "chat_messages" || t.Filter == nil || t.Filter.Column != "session_id" || t.Filter.Value == "" {
			return false
		}
	}
	return true
}

func (c *wsConn) subscribe(cmd wsCommand) {
	if cmd.Channel == "" {
		c.push(wsFrame{Type: frameError, Error: "channel_required"})
		return
	}
	if !c.allowed(cmd) {
		c.push(wsFrame{Type: frameError, Channel: cmd.Channel, Error: "forbidden"})
		return
	}
	if cmd.Channel != notificationChan && len(cmd.Topics) == 0 {
		c.push(wsFrame{Type: frameError, Channel: cmd.Channel, Error: "topics_required"})
		return
	}

	c.mu.Lock()
	if _, exists := c.cancels[cmd.Channel]; !exists && len(c.cancels) >= wsMaxChannels {
		c.mu.Unlock()
		c.push(wsFrame{Type: frameError, Channel: cmd.Channel, Error: "too_many_channels"})
		return
	}
	c.mu.Unlock()

	// resubscribing replaces the previous channel of the same name
	c.unsubscribe(cmd.Channel)
	c.push(wsFrame{Type: frameAck, Channel: cmd.Channel})

	var cancel func()
	if cmd.Channel == notificationChan {
		cancel = c.forwardNotifications()
	} else {
		cancel = c.forwardChanges(cmd)
	}

	c.mu.Lock()
	c.cancels[cmd.Channel] = cancel
	c.mu.Unlock()
}

func (c *wsConn) forwardChanges(cmd wsCommand) func() {
	sub := c.h.subscriber.Subscribe(cmd.Channel, cmd.Topics...)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		changes, statuses := sub.Changes(), sub.Statuses()
		for changes != nil || statuses != nil {
			select {
			case ch, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				c.push(wsFrame{Type: frameChange, Channel: cmd.Channel, Change: &ch})
			case st, ok := <-statuses:
				if !ok {
					statuses = nil
					continue
				}
				c.push(wsFrame{Type: frameStatus, Channel: cmd.Channel, Status: st})
			}
		}
	}()
	return sub.Close
}

func (c *wsConn) forwardNotifications() func() {
	events, stop := c.h.feed.Listen()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for n := range events {
			c.push(wsFrame{Type: frameNotification, Channel: notificationChan, Notification: &n})
		}
	}()
	return stop
}

func (c *wsConn) unsubscribe(channel string) {
	c.mu.Lock()
	cancel, ok := c.cancels[channel]
	delete(c.cancels, channel)
	c.mu.Unlock()
	if ok {
		cancel()
	}
}

// teardown closes every channel the socket opened.
func (c *wsConn) teardown() {
	close(c.done)
	c.mu.Lock()
	cancels := c.cancels
	c.cancels = make(map[string]func())
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	c.wg.Wait()
	c.conn.Close()
	slog.Debug("websocket closed", "channels", len(cancels))
}
