package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/scythe504/kaliyo-backend/internal/config"
	"github.com/scythe504/kaliyo-backend/internal/words"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Bind:             "127.0.0.1",
		Port:             3001,
		TurnDuration:     90 * time.Second,
		NextTurnDelay:    2 * time.Second,
		MaxPlayers:       8,
		MinPlayers:       2,
		DefaultScoreGoal: 50,
		MinScoreGoal:     10,
		ChatRate:         2,
		ChatBurst:        5,
		AllowedOrigins:   []string{"*"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, http.Handler) {
	t.Helper()
	bank, err := words.Default()
	require.NoError(t, err)

	s := New(cfg, bank)
	ctx, cancel := context.WithCancel(context.Background())
	go s.loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-s.loop.Done()
	})
	return s, s.RegisterRoutes()
}

// seedRoom creates a room on the loop and returns its code.
func seedRoom(t *testing.T, s *Server, withHost bool) string {
	t.Helper()
	var room *internal.Room
	var err error
	require.NoError(t, s.loop.Call(context.Background(), func() {
		room, err = s.ctrl.Store().CreateRoom("host")
		if err == nil && withHost {
			s.ctrl.Store().AddPlayer(room, "host", "Host")
		}
	}))
	require.NoError(t, err)
	return room.Code
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) internal.Response {
	t.Helper()
	var resp struct {
		internal.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp.Response
}

func TestGetRoom(t *testing.T) {
	s, h := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/1234", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	code := seedRoom(t, s, true)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/"+code, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var summary internal.RoomSummary
	resp = decodeResponse(t, rec, &summary)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, resp.RespEndTime, resp.RespStartTime)
	assert.Equal(t, internal.RoomSummary{Code: code, Players: 1, MaxPlayers: 8, Active: false}, summary)
}

func TestRoomQR(t *testing.T) {
	s, h := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/1234/qr", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	code := seedRoom(t, s, false)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rooms/"+code+"/qr", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestJoinURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://kaliyo.example/rooms/4321/qr", nil)
	assert.Equal(t, "http://kaliyo.example/?room=4321", JoinURL(req, "4321"))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://kaliyo.example/?room=4321", JoinURL(req, "4321"))
}

func TestHealthAndVersion(t *testing.T) {
	_, h := newTestServer(t, testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]int
	decodeResponse(t, rec, &health)
	assert.Equal(t, 0, health["rooms"])
	assert.Equal(t, 0, health["connections"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var version map[string]string
	decodeResponse(t, rec, &version)
	assert.Equal(t, config.ReleaseVersion, version["version"])
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"https://play.kaliyo.example"}
	_, h := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/rooms/1234", nil)
	req.Header.Set("Origin", "https://play.kaliyo.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://play.kaliyo.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGameSettings(t *testing.T) {
	cfg := testConfig()
	cfg.TurnDuration = 30 * time.Second
	cfg.MaxPlayers = 4

	settings := GameSettings(cfg)
	assert.Equal(t, 30, settings.TurnSeconds())
	assert.Equal(t, 4, settings.MaxPlayers)
	assert.Equal(t, internal.TickInterval, settings.TickInterval)
}
