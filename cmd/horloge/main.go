// Command horloge drives the French word clock.
package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/funtimes-horloge/internal/app"
	"github.com/coreman2200/funtimes-horloge/internal/clock"
	"github.com/coreman2200/funtimes-horloge/internal/config"
	"github.com/coreman2200/funtimes-horloge/internal/layout"
	"github.com/coreman2200/funtimes-horloge/internal/led"
	"github.com/coreman2200/funtimes-horloge/internal/render"
	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
	"github.com/coreman2200/funtimes-horloge/internal/ws"
)

var (
	configPath string

	runDriver  string
	runAddr    string
	runSimOnly bool
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "horloge",
		Short:        "French word clock",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config.yaml")

	root.AddCommand(newRunCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newSettingsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the clock on the configured output",
		RunE:  runClock,
	}
	cmd.Flags().StringVar(&runDriver, "driver", "", "driver: spi | console | sim (overrides config)")
	cmd.Flags().StringVar(&runAddr, "addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&runSimOnly, "sim-only", false, "force simulation (no hardware output)")
	return cmd
}

// loadConfig falls back to the defaults when the file is missing or invalid.
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info().Str("path", configPath).Msg("no config file; using defaults")
		return config.Default()
	case err != nil:
		log.Warn().Err(err).Str("path", configPath).Msg("config load failed; using defaults")
		return config.Default()
	}
	return cfg
}

func runClock(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if runDriver != "" {
		cfg.Driver = runDriver
	}
	if runSimOnly {
		cfg.Driver = config.DriverSim
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = runAddr
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	}

	src, err := clock.NewSystem(cfg.Timezone)
	if err != nil {
		log.Warn().Err(err).Msg("timezone not found; using host zone")
		src = &clock.System{Loc: time.Local}
	}

	store := config.NewSettingsStore(cfg.Settings)
	if _, complete, err := store.Ensure(); err != nil {
		log.Warn().Err(err).Str("path", cfg.Settings).Msg("settings not readable")
	} else if !complete {
		log.Info().Str("path", cfg.Settings).Msg("settings initialised with defaults")
	}

	drv, driverName := openDriver(cfg, wordclock.CellCount)
	defer drv.Close()

	fg, bg := cfg.Segments.Foreground, cfg.Segments.Background
	strip, err := render.NewStrip(wordclock.CellCount, drv, render.RGB8(fg[0], fg[1], fg[2]), render.RGB8(bg[0], bg[1], bg[2]))
	if err != nil {
		return err
	}

	l := layout.WordClock()
	state := ws.NewState(l, driverName, log.Logger)
	state.Settings = store

	ctrl, err := app.New(app.Options{
		Clock:           src,
		Flags:           store,
		Strip:           strip,
		Layout:          l,
		Online:          app.InterfaceUp,
		BlankBackground: cfg.Segments.BlankBackground,
		Logger:          log.Logger,
		OnFrame:         state.PublishFrame,
		OnDiag:          state.PushDiag,
	})
	if err != nil {
		return err
	}
	state.Ctrl = ctrl
	if err := ctrl.Reload(); err != nil {
		log.Warn().Err(err).Msg("settings read failed; all flags off")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return ctrl.Run(gctx, time.Second/time.Duration(cfg.FPS))
	})

	g.Go(func() error {
		err := config.WatchSettings(gctx, cfg.Settings, log.Logger, func() {
			if err := ctrl.Reload(); err != nil {
				log.Warn().Err(err).Msg("settings reload failed")
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("settings watcher stopped; edits need a restart")
		}
		return nil
	})

	if cfg.Addr != "" {
		srv := &http.Server{
			Addr:         cfg.Addr,
			Handler:      withCORS(state.Routes()),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		g.Go(func() error {
			log.Info().Str("addr", cfg.Addr).Str("driver", driverName).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	err = g.Wait()
	log.Info().Msg("shutting down")
	return err
}

// openDriver falls back to the simulator when the hardware cannot be opened.
func openDriver(cfg *config.Config, count int) (led.Driver, string) {
	switch cfg.Driver {
	case config.DriverSim:
		return led.NewSim(), config.DriverSim

	case config.DriverConsole:
		return led.NewConsole(count), config.DriverConsole

	case config.DriverSPI:
		drv, err := led.NewSPI(cfg.SPI.Dev, count, cfg.ColorOrder, cfg.SPI.SpeedHz)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Int("speed_hz", cfg.SPI.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			return led.NewSim(), config.DriverSim
		}
		return drv, config.DriverSPI

	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
		return led.NewSim(), config.DriverSim
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
