package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
	"github.com/dmitrijs2005/restorder/internal/logging"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateJoined
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateJoined:
		return "joined"
	default:
		return "disconnected"
	}
}

const closeWait = time.Second

// OrderHandler receives each order update in arrival order, on the
// subscriber's goroutine.
type OrderHandler func(models.Order)

type Subscriber struct {
	url     string
	token   string
	channel Channel
	dialer  *websocket.Dialer
	logger  logging.Logger

	state atomic.Int32

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func NewSubscriber(url, token string, ch Channel, logger logging.Logger) *Subscriber {
	return &Subscriber{
		url:     url,
		token:   token,
		channel: ch,
		dialer:  websocket.DefaultDialer,
		logger:  logger.With("channel", ch.String()),
	}
}

func (s *Subscriber) State() State {
	return State(s.state.Load())
}

func (s *Subscriber) setState(st State) {
	if State(s.state.Swap(int32(st))) != st {
		s.logger.Debug(context.Background(), "push state changed", "state", st.String())
	}
}

// Run connects, joins the channel and delivers updates to handle until the
// connection drops, ctx is cancelled or Close is called. A Close-initiated
// shutdown returns nil.
func (s *Subscriber) Run(ctx context.Context, handle OrderHandler) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.setState(StateConnecting)

	header := http.Header{}
	if s.token != "" {
		header.Set(common.AuthorizationHeaderName, "Bearer "+s.token)
	}

	conn, _, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		s.setState(StateDisconnected)
		return fmt.Errorf("%w: push connect: %v", common.ErrUnavailable, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		s.setState(StateDisconnected)
		return nil
	}
	s.conn = conn
	s.mu.Unlock()

	defer s.Close()

	join, err := s.channel.joinFrame()
	if err != nil {
		return fmt.Errorf("encode join: %w", err)
	}
	if err := conn.WriteJSON(join); err != nil {
		if s.isClosed() {
			return nil
		}
		return fmt.Errorf("send join: %w", err)
	}
	s.setState(StateJoined)
	s.logger.Info(ctx, "push channel joined")

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info(ctx, "push channel closed by server")
				return nil
			}
			return fmt.Errorf("push read: %w", err)
		}
		s.dispatch(ctx, data, handle)
	}
}

func (s *Subscriber) dispatch(ctx context.Context, data []byte, handle OrderHandler) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warn(ctx, "malformed push frame", "error", err)
		return
	}
	if f.Event != EventOrderUpdated {
		s.logger.Debug(ctx, "ignoring push event", "event", f.Event)
		return
	}

	var o models.Order
	if err := json.Unmarshal(f.Data, &o); err != nil {
		s.logger.Warn(ctx, "malformed order update", "error", err)
		return
	}
	if o.ID == "" {
		s.logger.Warn(ctx, "order update without id")
		return
	}
	handle(o)
}

func (s *Subscriber) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close ends the subscription. Calling it more than once, or before Run,
// is fine.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.mu.Unlock()

	s.setState(StateDisconnected)
	if conn == nil {
		return nil
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait))
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
