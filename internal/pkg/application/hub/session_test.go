package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

var upgrader = websocket.Upgrader{}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// scriptedHub runs the handshake a real hub performs: announce auth,
// verify the token, ack every request, then hand the socket to script.
func scriptedHub(t *testing.T, token string, script func(c *websocket.Conn)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		c.WriteJSON(map[string]any{"type": "auth_required"})

		var auth map[string]any
		if c.ReadJSON(&auth) != nil {
			return
		}

		if auth["access_token"] != token {
			c.WriteJSON(map[string]any{"type": "auth_invalid"})
			return
		}
		c.WriteJSON(map[string]any{"type": "auth_ok"})

		// one subscription plus three registry requests
		for i := 0; i < 4; i++ {
			var req map[string]any
			if c.ReadJSON(&req) != nil {
				return
			}
			c.WriteJSON(map[string]any{"type": "result", "id": req["id"], "success": true, "result": []any{}})
		}

		script(c)
	}))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func stateChangedFrame(entityID, state string) map[string]any {
	return map[string]any{
		"type": "event",
		"id":   1,
		"event": map[string]any{
			"event_type": "state_changed",
			"time_fired": "2026-03-01T07:00:00.000000+00:00",
			"data": map[string]any{
				"entity_id": entityID,
				"new_state": map[string]any{"entity_id": entityID, "state": state},
			},
			"context": map[string]any{"id": "ctx-1"},
		},
	}
}

func TestSessionDeliversEventsInReceiptOrder(t *testing.T) {
	is := is.New(t)

	srv := scriptedHub(t, "secret", func(c *websocket.Conn) {
		c.WriteJSON(stateChangedFrame("light.kitchen", "on"))
		c.WriteJSON(stateChangedFrame("light.kitchen", "off"))
		c.ReadJSON(&map[string]any{}) // block until the client hangs up
	})
	defer srv.Close()

	received := make(chan types.Event, 16)
	s := New(
		Config{URL: wsURL(srv), Token: "secret", ReconnectDelay: 10 * time.Millisecond},
		capabilities.NewStore(),
		func(_ context.Context, e types.Event) { received <- e },
		clock.New(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop(ctx)

	first := <-received
	second := <-received

	is.Equal(first.EntityID, "light.kitchen")
	is.Equal(first.NewState.State, "on")
	is.Equal(second.NewState.State, "off")
	is.True(!first.ReceivedAt.IsZero())
	is.True(!first.ReceivedAt.After(second.ReceivedAt))
	is.True(s.Connected())
}

func TestSessionAnswersPings(t *testing.T) {
	is := is.New(t)

	gotPong := make(chan int64, 1)

	srv := scriptedHub(t, "secret", func(c *websocket.Conn) {
		c.WriteJSON(map[string]any{"type": "ping", "id": 99})

		var pong struct {
			ID   int64  `json:"id"`
			Type string `json:"type"`
		}
		if c.ReadJSON(&pong) == nil && pong.Type == "pong" {
			gotPong <- pong.ID
		}
	})
	defer srv.Close()

	s := New(
		Config{URL: wsURL(srv), Token: "secret", ReconnectDelay: 10 * time.Millisecond},
		capabilities.NewStore(),
		func(context.Context, types.Event) {},
		clock.New(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop(ctx)

	select {
	case id := <-gotPong:
		is.Equal(id, int64(99))
	case <-time.After(3 * time.Second):
		t.Fatal("no pong received")
	}
}

func TestSessionFailsOverOnInvalidToken(t *testing.T) {
	is := is.New(t)

	// the primary rejects every token
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		c.WriteJSON(map[string]any{"type": "auth_required"})
		c.ReadJSON(&map[string]any{})
		c.WriteJSON(map[string]any{"type": "auth_invalid"})
	}))
	defer primary.Close()

	fallback := scriptedHub(t, "secret", func(c *websocket.Conn) {
		c.WriteJSON(stateChangedFrame("switch.fan", "on"))
		c.ReadJSON(&map[string]any{})
	})
	defer fallback.Close()

	received := make(chan types.Event, 1)
	s := New(
		Config{
			URL:            wsURL(primary),
			FallbackURLs:   []string{wsURL(fallback)},
			Token:          "secret",
			ReconnectDelay: 10 * time.Millisecond,
		},
		capabilities.NewStore(),
		func(_ context.Context, e types.Event) { received <- e },
		clock.New(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop(ctx)

	select {
	case e := <-received:
		is.Equal(e.EntityID, "switch.fan")
	case <-time.After(3 * time.Second):
		t.Fatal("failover to fallback endpoint did not happen")
	}
}

func TestRefreshDiscoveryRequiresActiveSession(t *testing.T) {
	is := is.New(t)

	s := New(
		Config{URL: "ws://127.0.0.1:1", Token: "secret"},
		capabilities.NewStore(),
		func(context.Context, types.Event) {},
		clock.New(),
	)

	err := s.RefreshDiscovery(context.Background())
	is.True(errors.Is(err, ErrNotConnected))
}

func TestRefreshDiscoveryUpdatesCapabilityIndex(t *testing.T) {
	is := is.New(t)

	srv := scriptedHub(t, "secret", func(c *websocket.Conn) {
		// two registry requests from the refresh
		for i := 0; i < 2; i++ {
			var req map[string]any
			if c.ReadJSON(&req) != nil {
				return
			}

			var result any = []any{}
			if req["type"] == "config/device_registry/list" {
				result = []map[string]any{{"id": "dev-9", "manufacturer": "Aqara", "model": "MCCGQ11LM"}}
			}
			c.WriteJSON(map[string]any{"type": "result", "id": req["id"], "success": true, "result": result})
		}

		c.ReadJSON(&map[string]any{})
	})
	defer srv.Close()

	caps := capabilities.NewStore()
	s := New(
		Config{URL: wsURL(srv), Token: "secret", ReconnectDelay: 10 * time.Millisecond},
		caps,
		func(context.Context, types.Event) {},
		clock.New(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop(ctx)

	waitFor(t, func() bool { return s.Connected() })

	is.NoErr(s.RefreshDiscovery(ctx))

	waitFor(t, func() bool {
		_, ok := caps.ByDeviceID("dev-9")
		return ok
	})
}

func TestSessionRefreshesCapabilityIndexOnDiscovery(t *testing.T) {
	is := is.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		c.WriteJSON(map[string]any{"type": "auth_required"})
		c.ReadJSON(&map[string]any{})
		c.WriteJSON(map[string]any{"type": "auth_ok"})

		for i := 0; i < 4; i++ {
			var req map[string]any
			if c.ReadJSON(&req) != nil {
				return
			}

			var result any = []any{}
			switch req["type"] {
			case "config/device_registry/list":
				result = []map[string]any{{"id": "dev-1", "manufacturer": "Inovelli", "model": "VZM31-SN"}}
			case "config/entity_registry/list":
				result = []map[string]any{{"entity_id": "light.office", "device_id": "dev-1", "area_id": "office"}}
			}
			c.WriteJSON(map[string]any{"type": "result", "id": req["id"], "success": true, "result": result})
		}

		c.ReadJSON(&map[string]any{})
	}))
	defer srv.Close()

	caps := capabilities.NewStore()
	s := New(
		Config{URL: wsURL(srv), Token: "secret", ReconnectDelay: 10 * time.Millisecond},
		caps,
		func(context.Context, types.Event) {},
		clock.New(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop(ctx)

	waitFor(t, func() bool {
		_, ok := caps.ByDeviceID("dev-1")
		return ok
	})

	m, ok := caps.EntityMetadata("light.office")
	is.True(ok)
	is.Equal(m.AreaID, "office")
	is.Equal(m.DeviceID, "dev-1")
}
