package ws

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-horloge/internal/app"
	"github.com/coreman2200/funtimes-horloge/internal/clock"
	"github.com/coreman2200/funtimes-horloge/internal/config"
	"github.com/coreman2200/funtimes-horloge/internal/layout"
	"github.com/coreman2200/funtimes-horloge/internal/led"
	"github.com/coreman2200/funtimes-horloge/internal/render"
	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

var noon = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newState(t *testing.T) (*State, *config.SettingsStore) {
	t.Helper()
	store := config.NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, store.Write(wordclock.Flags{Active: true, ItIs: true, Meridiem: true}))

	s := NewState(layout.WordClock(), "sim", zerolog.Nop())
	s.Settings = store

	strip, err := render.NewStrip(wordclock.CellCount, led.NewSim(), render.RGB8(255, 160, 0), render.RGB8(16, 10, 0))
	require.NoError(t, err)
	ctrl, err := app.New(app.Options{
		Clock:   &clock.Fixed{T: noon},
		Flags:   store,
		Strip:   strip,
		OnFrame: s.PublishFrame,
		OnDiag:  s.PushDiag,
	})
	require.NoError(t, err)
	require.NoError(t, ctrl.Reload())
	s.Ctrl = ctrl
	return s, store
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestHealth(t *testing.T) {
	s, _ := newState(t)
	require.NoError(t, s.Ctrl.Step(noon))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Routes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["frame_id"])
	assert.EqualValues(t, wordclock.CellCount, resp["count"])
	assert.Equal(t, string(app.Running), resp["phase"])
	assert.Equal(t, "sim", resp["driver"])
	assert.Contains(t, resp, "render_ms")
}

func TestPublishFrameSkipsStalledClient(t *testing.T) {
	s, _ := newState(t)

	// a client whose writer never drains its queue
	stalled := &client{send: make(chan []byte, 1)}
	stalled.send <- []byte("backlog")
	s.mu.Lock()
	s.clients[stalled] = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			s.PublishFrame(app.Snapshot{Split: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishFrame blocked on a stalled client")
	}

	assert.Len(t, stalled.send, 1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.EqualValues(t, 5, s.frameID)
	assert.Equal(t, 4, s.last.Split)
}

func TestPutFlagsPersists(t *testing.T) {
	s, store := newState(t)

	body := []byte(`{"display_meridiem": false}`)
	req := httptest.NewRequest(http.MethodPut, "/api/flags", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Routes().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	want := wordclock.Flags{Active: true, ItIs: true}
	var got wordclock.Flags
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, want, got)
	assert.Equal(t, want, s.Ctrl.Flags())

	stored, complete, err := store.Read()
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, want, stored)

	req = httptest.NewRequest(http.MethodPut, "/api/flags", strings.NewReader("{"))
	w = httptest.NewRecorder()
	s.Routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunTestEndpoint(t *testing.T) {
	s, _ := newState(t)
	r := s.Routes()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tests/strobe", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tests/index_sweep", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.NoError(t, s.Ctrl.Step(noon))
	assert.Equal(t, "index_sweep", s.Ctrl.Snapshot().Test)
}

func TestFramesSocket(t *testing.T) {
	s, _ := newState(t)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/frames"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var top struct {
		Faceplate []string `json:"faceplate"`
		Dim       struct{ X, Y int }
	}
	require.NoError(t, conn.ReadJSON(&top))
	assert.Equal(t, wordclock.Faceplate[:], top.Faceplate)
	assert.Equal(t, 11, top.Dim.X)

	require.NoError(t, s.Ctrl.Step(noon))

	var frame struct {
		FrameID uint64   `json:"frame_id"`
		Split   int      `json:"split"`
		RGB     []byte   `json:"rgb"`
		Words   []string `json:"words"`
	}
	require.NoError(t, conn.ReadJSON(&frame))
	want, err := wordclock.Update(12, 0, wordclock.Flags{Active: true, ItIs: true, Meridiem: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, frame.FrameID)
	assert.Equal(t, want.Split, frame.Split)
	assert.Len(t, frame.RGB, wordclock.CellCount*3)
	assert.Len(t, frame.Words, wordclock.Rows)
}

func TestControlSocket(t *testing.T) {
	s, store := newState(t)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	diagConn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/diag"), nil)
	require.NoError(t, err)
	defer diagConn.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/control"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	require.NoError(t, conn.WriteJSON(map[string]any{"display_it_is": false}))
	var reply struct {
		Flags wordclock.Flags `json:"flags"`
	}
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, wordclock.Flags{Active: true, Meridiem: true}, reply.Flags)

	stored, _, err := store.Read()
	require.NoError(t, err)
	assert.False(t, stored.ItIs)

	require.Eventually(t, func() bool {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.diagClients) == 1
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, conn.WriteJSON(map[string]any{"runTest": "strobe"}))
	require.NoError(t, conn.ReadJSON(&reply))

	diagConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var d struct {
		Code string `json:"code"`
	}
	require.NoError(t, diagConn.ReadJSON(&d))
	assert.Equal(t, "TEST.UNKNOWN", d.Code)
}
