package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/config"
	"github.com/RahulSaini202/home-automation/internal/core"
	"github.com/RahulSaini202/home-automation/internal/proto"
	"github.com/RahulSaini202/home-automation/internal/service/homes"
	"github.com/RahulSaini202/home-automation/internal/store"
	"github.com/RahulSaini202/home-automation/internal/store/sqlite"
)

type testEnv struct {
	server *httptest.Server
	hub    *core.Hub
	homes  *homes.Service
	store  store.Store
}

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(context.Background(), "file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func startTestServer(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	disabledLogger := zerolog.Nop()

	st := createTestStore(t)
	hub := core.NewHub(core.Options{
		DisconnectOnLeave: cfg.Relay.DisconnectOnLeave,
		ClientBuffer:      cfg.Relay.ClientBuffer,
	}, &disabledLogger)
	relay := core.NewRelay(hub, nil, cfg.Relay.ScopedIngestion, &disabledLogger)
	svc := homes.New(st)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	server := NewServer(hub, relay, svc, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, hub: hub, homes: svc, store: st}
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

type outboundFrame struct {
	Type  string       `json:"type"`
	Event string       `json:"event"`
	Room  string       `json:"room"`
	Data  any          `json:"data"`
	Error *proto.Error `json:"error"`
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) outboundFrame {
	t.Helper()

	var out outboundFrame
	if err := wsjson.Read(ctx, conn, &out); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	return out
}

func sendRoomCommand(t *testing.T, ctx context.Context, conn *websocket.Conn, typ, room string) {
	t.Helper()

	payload := []byte(`{"room":"` + room + `"}`)
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func joinRoom(t *testing.T, ctx context.Context, conn *websocket.Conn, room string) {
	t.Helper()

	sendRoomCommand(t, ctx, conn, proto.InboundTypeJoin, room)
	ack := readFrame(t, ctx, conn)
	if ack.Event != "joined" || ack.Room != room {
		t.Fatalf("unexpected join ack: %+v", ack)
	}
}
