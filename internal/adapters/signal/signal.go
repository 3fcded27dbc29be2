package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Town/internal/app"
	"github.com/dkeye/Town/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is one encoded outbound message.
type Frame []byte

// Handshake is what a client claims when it connects.
type Handshake struct {
	RoomID domain.RoomID
	Token  domain.SessionToken
}

// Conn is a real-time client connection as the bridge sees it.
type Conn interface {
	Handshake() Handshake
	Emit(event string, payload any) error
	On(event string, fn func(data json.RawMessage))
	OnDisconnect(fn func())
	Disconnect()
}

type Options struct {
	ReadLimit  int64
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
	SendBuffer int
}

func DefaultOptions() Options {
	return Options{
		ReadLimit:  4096,
		PongWait:   60 * time.Second,
		PingPeriod: 54 * time.Second,
		WriteWait:  5 * time.Second,
		SendBuffer: 32,
	}
}

type SignalWSController struct {
	Rooms  RoomLookup
	Policy app.Policy
	opts   Options
}

func NewSignalWSController(rooms RoomLookup, policy app.Policy, opts Options) *SignalWSController {
	if policy == nil {
		policy = app.SimplePolicy{}
	}
	return &SignalWSController{Rooms: rooms, Policy: policy, opts: opts}
}

// WsSignalConn implements Conn over a gorilla websocket.
type WsSignalConn struct {
	conn *websocket.Conn
	hs   Handshake
	send chan Frame
	opts Options

	mu           sync.RWMutex
	closed       bool
	started      bool
	handlers     map[string]func(json.RawMessage)
	onDisconnect []func()
	fired        sync.Once
}

func newWsSignalConn(ws *websocket.Conn, hs Handshake, opts Options) *WsSignalConn {
	return &WsSignalConn{
		conn:     ws,
		hs:       hs,
		send:     make(chan Frame, opts.SendBuffer),
		opts:     opts,
		handlers: make(map[string]func(json.RawMessage)),
	}
}

func (c *WsSignalConn) Handshake() Handshake { return c.hs }

func (c *WsSignalConn) On(event string, fn func(json.RawMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = fn
}

func (c *WsSignalConn) OnDisconnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = append(c.onDisconnect, fn)
}

func (c *WsSignalConn) Emit(event string, payload any) error {
	env := envelope{Type: event}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Data = b
	}
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.TrySend(b)
}

func (c *WsSignalConn) TrySend(f Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

// Disconnect stops accepting frames. Once the pumps run, the write pump
// flushes what is queued and closes the socket; before that the socket is
// closed right away.
func (c *WsSignalConn) Disconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	started := c.started
	c.mu.Unlock()

	if !started {
		deadline := time.Now().Add(c.opts.WriteWait)
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = c.conn.Close()
	}
}

func (c *WsSignalConn) handler(event string) (func(json.RawMessage), bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.handlers[event]
	return fn, ok
}

func (c *WsSignalConn) markStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = true
}

func (c *WsSignalConn) fireDisconnect() {
	c.fired.Do(func() {
		c.mu.RLock()
		fns := append([]func(){}, c.onDisconnect...)
		c.mu.RUnlock()
		for _, fn := range fns {
			fn()
		}
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and hands the connection to the bridge.
// The handshake comes from the roomID and token query parameters.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	hs := Handshake{
		RoomID: domain.RoomID(c.Query("roomID")),
		Token:  domain.SessionToken(c.Query("token")),
	}
	log.Info().Str("module", "signal").Str("room_id", string(hs.RoomID)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := newWsSignalConn(ws, hs, ctl.opts)
	if !ctl.Subscribe(conn) {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	conn.markStarted()
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}
