//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/painstats-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/painstats-backend/internal/app"
	"github.com/heartmarshall/painstats-backend/internal/config"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL        string
	Client     *http.Client
	Pool       *pgxpool.Pool
	ExportPath string
	auth       *fakeAuth
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// fakeAuth stands in for the external verification service: GET /users
// answers {"result":{"phone":...}} for registered tokens and 401 otherwise.
// ---------------------------------------------------------------------------

type fakeAuth struct {
	mu     sync.Mutex
	tokens map[string]string
	calls  int
}

func (f *fakeAuth) register(token, phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = phone
}

func (f *fakeAuth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAuth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls++
	phone, ok := f.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	f.mu.Unlock()

	if r.URL.Path != "/api/v1/users" || !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"result": map[string]any{"phone": phone, "name": "Test"},
	})
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper).
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	auth := &fakeAuth{tokens: make(map[string]string)}
	authSrv := httptest.NewServer(auth)
	t.Cleanup(authSrv.Close)

	exportPath := filepath.Join(t.TempDir(), "statistics_output.xlsx")

	cfg := &config.Config{
		Verifier:  config.VerifierConfig{BaseURL: authSrv.URL + "/api/v1", Timeout: 5 * time.Second},
		Export:    config.ExportConfig{Path: exportPath, SheetName: "Statistics", OnRequest: true, OnStream: false},
		WebSocket: config.WebSocketConfig{OriginPatterns: "*", ReadLimit: 65536},
		RateLimit: config.RateLimitConfig{PerMinute: 0, CleanupInterval: time.Minute},
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Content-Type",
		},
	}

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	handler, cleanup := app.NewHandler(cfg, logger, pool, prometheus.NewRegistry())
	t.Cleanup(cleanup)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:        srv.URL,
		Client:     srv.Client(),
		Pool:       pool,
		ExportPath: exportPath,
		auth:       auth,
	}
}

// newUser registers a token for a fresh phone number and returns both.
func (ts *testServer) newUser(t *testing.T) (token, phone string) {
	t.Helper()
	phone = testhelper.UniquePhone()
	token = "tok-" + phone
	ts.auth.register(token, phone)
	return token, phone
}

// envelope is the decoded response envelope.
type envelope struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Action  string `json:"action"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Data    *struct {
		FileJSON struct {
			PhoneNumber string                      `json:"phone_number"`
			Statistics  map[string][]map[string]any `json:"statistics"`
		} `json:"file_json"`
	} `json:"data"`
}

func commandBody(token string) string {
	return `{"token":"` + token + `","action":"export_stats","type":"command"}`
}

// postStat sends body to /get-stat and returns the status code and raw body.
func (ts *testServer) postStat(t *testing.T, body string) (int, []byte) {
	t.Helper()

	resp, err := ts.Client.Post(ts.URL+"/get-stat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp.StatusCode, raw
}

func decodeEnvelope(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return env
}

// dialWS opens a websocket session against the server root.
func (ts *testServer) dialWS(t *testing.T) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() }) //nolint:errcheck
	return conn
}

// wsCommand sends one text frame and reads the answer.
func wsCommand(t *testing.T, conn *websocket.Conn, msg string) []byte {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(msg)))
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	return data
}
