package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-horloge/internal/app"
	"github.com/coreman2200/funtimes-horloge/internal/config"
	diag "github.com/coreman2200/funtimes-horloge/internal/diagnostics"
	"github.com/coreman2200/funtimes-horloge/internal/layout"
	"github.com/coreman2200/funtimes-horloge/internal/tests"
	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

const writeWait = 200 * time.Millisecond

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// State fans controller frames and diagnostics out to websocket clients and
// applies control messages.
type State struct {
	mu     sync.RWMutex
	Layout layout.Layout
	Ctrl   *app.Controller
	// Settings persists flag changes; nil applies them to the controller only.
	Settings      *config.SettingsStore
	CurrentDriver string

	log         zerolog.Logger
	last        app.Snapshot
	frameID     uint64
	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
}

func NewState(l layout.Layout, driver string, logger zerolog.Logger) *State {
	return &State{
		Layout:        l,
		CurrentDriver: driver,
		log:           logger,
		startTime:     time.Now(),
		clients:       map[*client]bool{},
		diagClients:   map[*client]bool{},
	}
}

// Routes mounts the sockets and the JSON endpoints.
func (s *State) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ws/frames", s.HandleFramesWS)
	r.Get("/ws/diag", s.HandleDiagWS)
	r.Get("/ws/control", s.HandleControlWS)
	r.Get("/health", s.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/topology", s.handleTopology)
		r.Put("/flags", s.handleFlags)
		r.Post("/tests/{kind}", s.handleRunTest)
	})
	return r
}

// PublishFrame is the controller's frame hook. It only queues the frame;
// clients that fall behind miss frames.
func (s *State) PublishFrame(snap app.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameID++
	s.last = snap

	type frame struct {
		T       int64     `json:"t"`
		FrameID uint64    `json:"frame_id"`
		Phase   app.Phase `json:"phase"`
		Split   int       `json:"split"`
		RGB     []byte    `json:"rgb"`
		Words   []string  `json:"words"`
		Test    string    `json:"test,omitempty"`
	}
	b, _ := json.Marshal(frame{
		T:       time.Now().UnixNano(),
		FrameID: s.frameID,
		Phase:   snap.Phase,
		Split:   snap.Split,
		RGB:     snap.RGB,
		Words:   snap.Words,
		Test:    snap.Test,
	})
	for c := range s.clients {
		if !c.enqueue(b) {
			s.log.Debug().Uint64("frame_id", s.frameID).Msg("preview client behind; frame dropped")
		}
	}
}

// PushDiag is the controller's diagnostics hook.
func (s *State) PushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.diagClients {
		c.enqueue(b)
	}
}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	top, _ := json.Marshal(s.topology())
	c := newClient(conn)
	c.enqueue(top)
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
	go c.writeLoop(s.log)
	go s.drain(c, s.clients)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := newClient(conn)
	s.mu.Lock()
	s.diagClients[c] = true
	s.mu.Unlock()
	go c.writeLoop(s.log)
	go s.drain(c, s.diagClients)
}

// drain reads until the peer goes away, then forgets the client and stops
// its writer.
func (s *State) drain(c *client, set map[*client]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, c)
		close(c.send)
		s.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Control is a control socket message; absent fields are left unchanged.
type Control struct {
	Active   *bool  `json:"active,omitempty"`
	ItIs     *bool  `json:"display_it_is,omitempty"`
	Meridiem *bool  `json:"display_meridiem,omitempty"`
	RunTest  string `json:"runTest,omitempty"`
}

func (m Control) hasFlags() bool {
	return m.Active != nil || m.ItIs != nil || m.Meridiem != nil
}

func (m Control) apply(f *wordclock.Flags) {
	if m.Active != nil {
		f.Active = *m.Active
	}
	if m.ItIs != nil {
		f.ItIs = *m.ItIs
	}
	if m.Meridiem != nil {
		f.Meridiem = *m.Meridiem
	}
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Control
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.applyControl(msg)
		_ = conn.WriteJSON(s.topology())
	}
}

func (s *State) applyControl(msg Control) {
	if msg.hasFlags() {
		s.setFlags(msg.apply)
	}
	if msg.RunTest != "" {
		s.runTest(tests.Kind(msg.RunTest))
	}
}

func (s *State) setFlags(fn func(*wordclock.Flags)) wordclock.Flags {
	if s.Settings == nil {
		f := s.Ctrl.Flags()
		fn(&f)
		s.Ctrl.SetFlags(f)
		return f
	}
	f, err := s.Settings.Update(fn)
	if err != nil {
		s.PushDiag(diag.New(diag.Warn, diag.SettingsFailed, "settings not saved: %v", err))
		f = s.Ctrl.Flags()
		fn(&f)
	}
	s.Ctrl.SetFlags(f)
	return f
}

func (s *State) runTest(kind tests.Kind) error {
	err := s.Ctrl.RunTest(kind)
	if errors.Is(err, app.ErrUnknownTest) {
		d := diag.New(diag.Warn, diag.TestUnknown, "unknown test name")
		d.Evidence = map[string]any{"name": string(kind)}
		s.PushDiag(d)
	}
	return err
}

func (s *State) topology() map[string]any {
	return map[string]any{
		"dim":       map[string]int{"x": s.Layout.Dim.X, "y": s.Layout.Dim.Y},
		"order":     map[string]bool{"xFlipEveryRow": s.Layout.Order.XFlipEveryRow},
		"faceplate": wordclock.Faceplate,
		"driver":    s.CurrentDriver,
		"flags":     s.Ctrl.Flags(),
		"tests":     tests.Kinds,
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := map[string]any{
		"frame_id":  s.frameID,
		"uptime_s":  time.Since(s.startTime).Seconds(),
		"count":     s.Layout.Count(),
		"phase":     s.last.Phase,
		"driver":    s.CurrentDriver,
		"render_ms": s.last.RenderMS,
	}
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *State) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Ctrl.Snapshot())
}

func (s *State) handleTopology(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.topology())
}

func (s *State) handleFlags(w http.ResponseWriter, r *http.Request) {
	var msg Control
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	f := s.setFlags(msg.apply)
	writeJSON(w, http.StatusOK, f)
}

func (s *State) handleRunTest(w http.ResponseWriter, r *http.Request) {
	if err := s.runTest(tests.Kind(chi.URLParam(r, "kind"))); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
