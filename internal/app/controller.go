package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-horloge/internal/clock"
	diag "github.com/coreman2200/funtimes-horloge/internal/diagnostics"
	"github.com/coreman2200/funtimes-horloge/internal/layout"
	"github.com/coreman2200/funtimes-horloge/internal/render"
	"github.com/coreman2200/funtimes-horloge/internal/tests"
	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

// Phase is the host gate in front of the clock.
type Phase string

const (
	WaitNetwork Phase = "wait_network"
	WaitTime    Phase = "wait_time"
	Running     Phase = "running"
)

const (
	// DefaultPoll is how often Run checks whether an update is due.
	DefaultPoll = 250 * time.Millisecond
	// syncRetry spaces the checks while waiting for network or time.
	syncRetry = time.Second
	// testHold keeps each test pattern frame for this many steps.
	testHold = 4
)

var ErrUnknownTest = errors.New("unknown test")

// FlagSource supplies the persisted flags and whether all of them were present.
type FlagSource interface {
	Read() (wordclock.Flags, bool, error)
}

type Options struct {
	Clock  clock.Source
	Flags  FlagSource
	Strip  *render.Strip
	Layout layout.Layout
	// Online reports network connectivity; nil means always online.
	Online func() bool
	// BlankBackground darkens background cells while the clock is shown.
	BlankBackground bool
	Logger          zerolog.Logger
	// OnFrame and OnDiag are called with the controller lock held; they
	// must not call back into the controller.
	OnFrame func(Snapshot)
	OnDiag  func(diag.Diagnostic)
}

// Snapshot describes what is on the display.
type Snapshot struct {
	Phase Phase           `json:"phase"`
	Flags wordclock.Flags `json:"flags"`
	Time  time.Time       `json:"time"`
	Perm  []int           `json:"perm"`
	Split int             `json:"split"`
	RGB   []byte          `json:"rgb"`
	Words []string        `json:"words"`
	Test  string          `json:"test,omitempty"`

	// RenderMS is the duration of the last strip render.
	RenderMS float64 `json:"render_ms"`
}

// Controller is the poll-driven host loop around the word clock.
type Controller struct {
	mu  sync.Mutex
	opt Options
	log zerolog.Logger

	phase   Phase
	screen  wordclock.ScreenName
	flags   wordclock.Flags
	applied wordclock.Flags // flags used by the last clock update
	nextDue time.Time

	frame   wordclock.Frame
	shownAt time.Time

	test    *tests.Runner
	scratch []bool

	// display state to put back when a test pattern ends
	beforeTest      wordclock.Frame
	beforeTestBlank bool
}

func New(opt Options) (*Controller, error) {
	if opt.Clock == nil {
		return nil, errors.New("clock source is nil")
	}
	if opt.Strip == nil {
		return nil, errors.New("strip is nil")
	}
	if opt.Strip.N != wordclock.CellCount {
		return nil, fmt.Errorf("strip has %d cells, want %d", opt.Strip.N, wordclock.CellCount)
	}
	if opt.Layout.Count() == 0 {
		opt.Layout = layout.WordClock()
	}
	if opt.Online == nil {
		opt.Online = func() bool { return true }
	}
	return &Controller{
		opt:     opt,
		log:     opt.Logger,
		phase:   WaitNetwork,
		scratch: make([]bool, wordclock.CellCount),
	}, nil
}

// Reload reads the flags from the flag source. Incomplete settings are
// used as read (missing flags are false) and reported.
func (c *Controller) Reload() error {
	if c.opt.Flags == nil {
		return nil
	}
	f, complete, err := c.opt.Flags.Read()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.diag(diag.New(diag.Warn, diag.SettingsFailed, "settings read failed; keeping previous flags"))
		return err
	}
	if !complete {
		c.diag(diag.New(diag.Warn, diag.SettingsPartial, "settings incomplete; missing flags are off"))
	}
	c.flags = f
	return nil
}

// SetFlags replaces the flags; the display follows on the next Step.
func (c *Controller) SetFlags(f wordclock.Flags) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags = f
}

func (c *Controller) Flags() wordclock.Flags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flags
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// RunTest replaces the display with a test pattern until it completes.
func (c *Controller) RunTest(kind tests.Kind) error {
	r := tests.NewRunner(tests.Plan{Kind: kind, Hold: testHold})
	if r == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTest, kind)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.test == nil {
		c.beforeTest = c.frame
		c.beforeTestBlank = c.opt.Strip.BlankBackground
	}
	c.test = r
	c.diag(diag.New(diag.Info, diag.TestRunning, "running test %s", kind))
	return nil
}

// Step runs one poll cycle at now. It redraws only when the minute
// changed since the last update, when a flag changed while running, or
// while a test runs. Waiting phases are rechecked once per second.
func (c *Controller) Step(now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.test != nil {
		return c.stepTest(now)
	}
	if now.Before(c.nextDue) && (c.phase != Running || c.flags == c.applied) {
		return nil
	}

	if c.phase != Running {
		if !c.opt.Online() {
			c.setPhase(WaitNetwork)
			c.nextDue = now.Add(syncRetry)
			return c.showScreen(wordclock.ScreenWifi, now)
		}
		if !clock.Synced(now) {
			c.setPhase(WaitTime)
			c.nextDue = now.Add(syncRetry)
			return c.showScreen(wordclock.ScreenTime, now)
		}
		c.setPhase(Running)
	}
	return c.updateClock(now)
}

func (c *Controller) updateClock(now time.Time) error {
	f := c.flags
	c.applied = f
	// next update on second 0 of the next minute
	c.nextDue = now.Truncate(time.Minute).Add(time.Minute)

	if !f.Active {
		c.log.Debug().Msg("clock inactive; display left as is")
		return nil
	}
	fr, err := wordclock.Update(now.Hour(), now.Minute(), f)
	if err != nil {
		c.diag(diag.New(diag.Err, diag.UpdateFailed, "%v", err))
		return err
	}
	c.log.Debug().
		Int("hour", now.Hour()).
		Int("minute", now.Minute()).
		Int("lit", fr.Split).
		Msg("clock updated")
	c.screen = ""
	c.opt.Strip.BlankBackground = c.opt.BlankBackground
	return c.show(fr, now)
}

func (c *Controller) showScreen(name wordclock.ScreenName, now time.Time) error {
	if c.screen == name {
		return nil
	}
	fr, err := wordclock.Screen(name)
	if err != nil {
		return err
	}
	c.screen = name
	c.opt.Strip.BlankBackground = false
	return c.show(fr, now)
}

func (c *Controller) stepTest(now time.Time) error {
	if !c.test.Step(c.opt.Layout, c.scratch) {
		c.diag(diag.New(diag.Info, diag.TestDone, "test %s complete", c.test.Kind()))
		c.test = nil
		// the clock redraws on the next step if it is active
		c.nextDue = time.Time{}
		return c.restore(now)
	}
	var fr wordclock.Frame
	copy(fr.Active[:], c.scratch)
	fr.Perm, fr.Split = wordclock.Partition(c.scratch)
	c.opt.Strip.BlankBackground = true
	return c.show(fr, now)
}

// restore puts back the frame shown before the test pattern started, or a
// dark display if nothing was shown yet.
func (c *Controller) restore(now time.Time) error {
	fr := c.beforeTest
	if fr.Perm == nil {
		fr.Perm, fr.Split = wordclock.Partition(fr.Active[:])
	}
	c.opt.Strip.BlankBackground = c.beforeTestBlank
	c.beforeTest = wordclock.Frame{}
	return c.show(fr, now)
}

func (c *Controller) show(fr wordclock.Frame, now time.Time) error {
	if err := c.opt.Strip.Apply(fr.Perm, fr.Split); err != nil {
		return err
	}
	if err := c.opt.Strip.RenderOnce(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	c.frame = fr
	c.shownAt = now
	if c.opt.OnFrame != nil {
		c.opt.OnFrame(c.snapshot())
	}
	return nil
}

func (c *Controller) setPhase(p Phase) {
	if c.phase == p {
		return
	}
	c.log.Info().Str("from", string(c.phase)).Str("to", string(p)).Msg("phase changed")
	c.phase = p
	c.diag(diag.New(diag.Info, diag.PhaseChanged, "%s", p))
}

func (c *Controller) diag(d diag.Diagnostic) {
	switch d.Severity {
	case diag.Info:
		c.log.Debug().Str("code", d.Code).Msg(d.Summary)
	default:
		c.log.Warn().Str("code", d.Code).Msg(d.Summary)
	}
	if c.opt.OnDiag != nil {
		c.opt.OnDiag(d)
	}
}

// Snapshot returns the current display state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	s := Snapshot{
		Phase: c.phase,
		Flags: c.flags,
		Time:  c.shownAt,
		Perm:  append([]int(nil), c.frame.Perm...),
		Split: c.frame.Split,
		RGB:   render.Bytes(c.opt.Strip.Out),
		Words: wordclock.Words(c.frame.Active, c.opt.Layout.Index),

		RenderMS: c.opt.Strip.Last.RenderMS,
	}
	if c.test != nil {
		s.Test = string(c.test.Kind())
	}
	return s
}

// Run steps the controller every interval until ctx is done.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPoll
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	c.step()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			c.step()
		}
	}
}

func (c *Controller) step() {
	if err := c.Step(c.opt.Clock.Now()); err != nil {
		c.log.Warn().Err(err).Msg("update cycle failed")
	}
}
