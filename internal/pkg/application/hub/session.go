package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/gorilla/websocket"
	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/pkg/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("home-intel/hub")

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateAuthenticating
	StateSubscribing
	StateActive
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateSubscribing:
		return "subscribing"
	case StateActive:
		return "active"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

const (
	DefaultReconnectDelay = 5 * time.Second

	handshakeTimeout = 15 * time.Second
	authTimeout      = 15 * time.Second

	// receiveWatchdog detects subscription loss without a disconnect: a
	// healthy hub pings well inside this window.
	receiveWatchdog = 60 * time.Second
)

var (
	ErrAuthInvalid     = errors.New("hub rejected the access token")
	ErrAllEndpointsOut = errors.New("could not connect to hub: all endpoints unavailable")
	ErrSubscribeFailed = errors.New("event subscription was refused")
	ErrNotConnected    = errors.New("hub session is not active")
)

type Config struct {
	URL            string        `yaml:"url"`
	FallbackURLs   []string      `yaml:"fallbackurls"`
	Token          string        `yaml:"token"`
	EventTypes     []string      `yaml:"eventtypes"`
	ReconnectDelay time.Duration `yaml:"reconnectdelay"`
}

func (c Config) Validate() error {
	for _, raw := range append([]string{c.URL}, c.FallbackURLs...) {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return fmt.Errorf("hub url %q must use a ws or wss scheme", raw)
		}
	}
	if c.Token == "" {
		return errors.New("hub token must not be empty")
	}
	return nil
}

// EventHandler receives events in receipt order for the duration of a
// single active session. It must not block; the enrichment pipeline puts a
// bounded channel behind it.
type EventHandler func(ctx context.Context, e types.Event)

//go:generate moq -rm -out sessionmanager_mock.go . SessionManager
type SessionManager interface {
	Start(ctx context.Context)
	Stop(ctx context.Context)
	State() State
	Connected() bool

	// RefreshDiscovery re-requests the device and entity registries over
	// the active session, refreshing the capability index.
	RefreshDiscovery(ctx context.Context) error
}

type session struct {
	cfg       Config
	handler   EventHandler
	caps      capabilities.Store
	clk       clock.Clock
	endpoints *endpointSet

	state  atomic.Int32
	nextID atomic.Int64

	connMu sync.Mutex
	conn   *websocket.Conn

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[int64]string

	done     chan struct{}
	stopOnce sync.Once

	eventsReceived metric.Int64Counter
	reconnects     metric.Int64Counter
}

func New(cfg Config, caps capabilities.Store, handler EventHandler, clk clock.Clock) SessionManager {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if len(cfg.EventTypes) == 0 {
		cfg.EventTypes = []string{"state_changed"}
	}

	eventsReceived, _ := meter.Int64Counter("hub.events.received")
	reconnects, _ := meter.Int64Counter("hub.session.reconnects")

	return &session{
		cfg:            cfg,
		handler:        handler,
		caps:           caps,
		clk:            clk,
		endpoints:      newEndpointSet(append([]string{cfg.URL}, cfg.FallbackURLs...)),
		pending:        map[int64]string{},
		done:           make(chan struct{}),
		eventsReceived: eventsReceived,
		reconnects:     reconnects,
	}
}

func (s *session) State() State {
	return State(s.state.Load())
}

func (s *session) Connected() bool {
	return s.State() == StateActive
}

func (s *session) setState(st State) {
	s.state.Store(int32(st))
}

func (s *session) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *session) Stop(ctx context.Context) {
	s.stopOnce.Do(func() { close(s.done) })

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.setState(StateDisconnected)
}

func (s *session) run(ctx context.Context) {
	log := logging.GetFromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		endpoint, ok := s.endpoints.Next(s.clk.Now())
		if !ok {
			log.Error(ErrAllEndpointsOut.Error())
			if !s.sleep(ctx, s.cfg.ReconnectDelay) {
				return
			}
			continue
		}

		err := s.connectAndServe(ctx, endpoint)

		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		if errors.Is(err, ErrAuthInvalid) {
			log.Error("authentication failed, demoting endpoint", "endpoint", endpoint)
			s.endpoints.MarkAuthFailed(endpoint)
		} else if err != nil {
			log.Warn("session ended", "endpoint", endpoint, "err", err.Error())
			s.endpoints.MarkFailure(endpoint, s.clk.Now())
		}

		s.setState(StateReconnecting)
		s.reconnects.Add(ctx, 1)

		if !s.sleep(ctx, s.cfg.ReconnectDelay) {
			return
		}
	}
}

func (s *session) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-s.done:
		return false
	case <-t.C:
		return true
	}
}

func (s *session) connectAndServe(ctx context.Context, endpoint string) error {
	log := logging.GetFromContext(ctx)

	s.setState(StateConnecting)

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	dialCtx, cancel := context.WithTimeout(ctx, handshakeTimeout)
	conn, _, err := dialer.DialContext(dialCtx, endpoint, nil)
	cancel()
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	defer func() {
		s.connMu.Lock()
		s.conn = nil
		s.connMu.Unlock()
		conn.Close()
	}()

	err = s.authenticate(conn)
	if err != nil {
		return err
	}

	// request ids are unique and monotonic within the session
	s.setState(StateSubscribing)

	s.resetPending()

	for _, eventType := range s.cfg.EventTypes {
		id := s.nextID.Add(1)
		s.addPending(id, "subscribe:"+eventType)

		err = s.send(conn, subscribeRequest{ID: id, Type: requestTypeSubscribeEvents, EventType: eventType})
		if err != nil {
			return fmt.Errorf("subscribe %s failed: %w", eventType, err)
		}
	}

	for _, registry := range []string{requestTypeDeviceRegistry, requestTypeEntityRegistry, requestTypeConfigEntries} {
		id := s.nextID.Add(1)
		s.addPending(id, registry)

		err = s.send(conn, registryRequest{ID: id, Type: registry})
		if err != nil {
			return fmt.Errorf("registry request %s failed: %w", registry, err)
		}
	}

	s.setState(StateActive)
	s.endpoints.MarkSuccess(endpoint)
	log.Info("hub session active", "endpoint", endpoint, "subscriptions", len(s.cfg.EventTypes))

	return s.serve(ctx, conn)
}

// RefreshDiscovery is safe to call from outside the session goroutine, the
// results are handled by the serve loop like any other registry response.
func (s *session) RefreshDiscovery(ctx context.Context) error {
	s.connMu.Lock()
	conn := s.conn
	s.connMu.Unlock()

	if conn == nil || s.State() != StateActive {
		return ErrNotConnected
	}

	for _, registry := range []string{requestTypeDeviceRegistry, requestTypeEntityRegistry} {
		id := s.nextID.Add(1)
		s.addPending(id, registry)

		err := s.send(conn, registryRequest{ID: id, Type: registry})
		if err != nil {
			return fmt.Errorf("registry request %s failed: %w", registry, err)
		}
	}

	return nil
}

func (s *session) send(conn *websocket.Conn, v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (s *session) resetPending() {
	s.pendingMu.Lock()
	s.pending = map[int64]string{}
	s.pendingMu.Unlock()
}

func (s *session) addPending(id int64, kind string) {
	s.pendingMu.Lock()
	s.pending[id] = kind
	s.pendingMu.Unlock()
}

func (s *session) takePending(id int64) (string, bool) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	kind, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	return kind, ok
}

func (s *session) authenticate(conn *websocket.Conn) error {
	s.setState(StateAuthenticating)

	conn.SetReadDeadline(s.clk.Now().Add(authTimeout))

	var frame inboundFrame
	err := conn.ReadJSON(&frame)
	if err != nil {
		return fmt.Errorf("reading auth_required: %w", err)
	}

	if frame.Type != frameTypeAuthRequired {
		return fmt.Errorf("expected auth_required, got %q", frame.Type)
	}

	err = conn.WriteJSON(authRequest{Type: requestTypeAuth, AccessToken: s.cfg.Token})
	if err != nil {
		return fmt.Errorf("sending credentials: %w", err)
	}

	conn.SetReadDeadline(s.clk.Now().Add(authTimeout))

	err = conn.ReadJSON(&frame)
	if err != nil {
		return fmt.Errorf("reading auth response: %w", err)
	}

	switch frame.Type {
	case frameTypeAuthOK:
		return nil
	case frameTypeAuthInvalid:
		return ErrAuthInvalid
	default:
		return fmt.Errorf("unexpected frame %q during auth", frame.Type)
	}
}

func (s *session) serve(ctx context.Context, conn *websocket.Conn) error {
	log := logging.GetFromContext(ctx)

	for {
		conn.SetReadDeadline(s.clk.Now().Add(receiveWatchdog))

		var frame inboundFrame
		err := conn.ReadJSON(&frame)
		if err != nil {
			select {
			case <-s.done:
				return nil
			case <-ctx.Done():
				return nil
			default:
			}
			return fmt.Errorf("receive failed (watchdog %s): %w", receiveWatchdog, err)
		}

		switch frame.Type {
		case frameTypeEvent:
			if frame.Event == nil {
				continue
			}
			e := decodeEvent(frame.Event)
			e.ReceivedAt = s.clk.Now()
			s.eventsReceived.Add(ctx, 1)
			s.handler(ctx, e)

		case frameTypePing:
			s.send(conn, pongResponse{ID: frame.ID, Type: frameTypePong})

		case frameTypeResult:
			err = s.handleResult(ctx, frame)
			if err != nil {
				return err
			}

		case frameTypePong:
			// keepalive answer, nothing to correlate

		default:
			log.Debug("ignoring frame", "type", frame.Type)
		}
	}
}

func (s *session) handleResult(ctx context.Context, frame inboundFrame) error {
	log := logging.GetFromContext(ctx)

	kind, ok := s.takePending(frame.ID)
	if !ok {
		log.Debug("uncorrelated result frame", "id", frame.ID)
		return nil
	}

	if frame.Success != nil && !*frame.Success {
		msg := "unknown error"
		if frame.Error != nil {
			msg = frame.Error.Message
		}

		if len(kind) > 10 && kind[:10] == "subscribe:" {
			return fmt.Errorf("%w: %s: %s", ErrSubscribeFailed, kind[10:], msg)
		}

		log.Warn("registry request failed", "request", kind, "err", msg)
		return nil
	}

	switch kind {
	case requestTypeDeviceRegistry:
		var devices []capabilities.DeviceEntry
		if err := json.Unmarshal(frame.Result, &devices); err != nil {
			log.Warn("could not parse device registry", "err", err.Error())
			return nil
		}
		s.caps.HandleDeviceList(ctx, devices)

	case requestTypeEntityRegistry:
		var entities []capabilities.EntityEntry
		if err := json.Unmarshal(frame.Result, &entities); err != nil {
			log.Warn("could not parse entity registry", "err", err.Error())
			return nil
		}
		s.caps.HandleEntityList(ctx, entities)

	case requestTypeConfigEntries:
		var entries []json.RawMessage
		json.Unmarshal(frame.Result, &entries)
		log.Debug("config entries received", "count", len(entries))
	}

	return nil
}
