//go:build darwin

package app

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/progrium/darwinkit/dispatch"
	log "github.com/sirupsen/logrus"

	"github.com/siegfried/topwatch/internal/activity"
	"github.com/siegfried/topwatch/internal/blink"
	"github.com/siegfried/topwatch/internal/clock"
	"github.com/siegfried/topwatch/internal/config"
	"github.com/siegfried/topwatch/internal/overlay"
	"github.com/siegfried/topwatch/internal/stats"
	"github.com/siegfried/topwatch/internal/ui"
)

const (
	fontStep    = 2
	opacityStep = 0.1
)

// Options locate the files the application works with
type Options struct {
	ConfigPath string
	DataDir    string
}

// App is the main application coordinator
type App struct {
	configManager   *config.Manager
	statsStore      *stats.Store
	window          *overlay.Window
	display         *clock.Display
	blinker         *blink.Scheduler
	activityMonitor *activity.Monitor
	menuBar         *ui.MenuBar

	sessionID string
	startedAt time.Time

	// actionMu serializes menu actions and activity callbacks, which menuet
	// and the monitor run on their own goroutines
	actionMu  sync.Mutex
	suspended bool
}

// New creates a new application instance
func New(opts Options) (*App, error) {
	app := &App{startedAt: time.Now()}

	app.configManager = config.NewManager(opts.ConfigPath)

	statsStore, err := stats.NewStore(filepath.Join(opts.DataDir, stats.DBFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create stats store: %w", err)
	}
	app.statsStore = statsStore

	cfg := app.configManager.Get()

	app.window = overlay.NewWindow(cfg)
	app.display = clock.NewDisplay(app.window, clock.DefaultLayout)
	app.blinker = blink.New(app.window, blink.NewTickerFactory(mainQueue))
	app.activityMonitor = activity.NewMonitor(activity.DefaultThreshold)
	app.menuBar = ui.NewMenuBar(app.handlers())

	app.setupCallbacks()

	return app, nil
}

// Run shows the clock and blocks in the menu bar event loop
func (a *App) Run() error {
	sessionID, err := a.statsStore.StartSession()
	if err != nil {
		log.Warnf("Failed to start session: %v", err)
	} else {
		a.sessionID = sessionID
	}

	if a.configManager.Repaired() {
		a.reportRepair()
	}

	a.window.Show(a.configManager.Get())
	a.display.Start(mainQueue)
	a.activityMonitor.Start()

	log.Info("Application started successfully")

	a.menuBar.Start()

	return nil
}

// Shutdown performs cleanup before exit
func (a *App) Shutdown() {
	log.Info("Shutting down application...")

	a.activityMonitor.Stop()
	a.display.Stop()
	a.blinker.Disarm()
	a.window.Close()

	if a.sessionID != "" {
		if err := a.statsStore.EndSession(a.sessionID); err != nil {
			log.Warnf("Failed to end session: %v", err)
		}
	}

	if err := a.statsStore.Close(); err != nil {
		log.Warnf("Failed to close stats store: %v", err)
	}

	log.Info("Shutdown complete")
}

// setupCallbacks configures all component callbacks
func (a *App) setupCallbacks() {
	a.blinker.SetOnBurst(func(pulses int) {
		if a.sessionID == "" {
			return
		}
		go func() {
			if err := a.statsStore.RecordBurst(a.sessionID, pulses); err != nil {
				log.Debugf("Failed to record burst: %v", err)
			}
		}()
	})

	a.activityMonitor.SetOnBecameIdle(func() {
		a.actionMu.Lock()
		defer a.actionMu.Unlock()

		if a.blinker.Disarm() {
			log.Info("User became idle - pausing blink")
			a.suspended = true
		}
	})

	a.activityMonitor.SetOnBecameActive(func() {
		a.actionMu.Lock()
		defer a.actionMu.Unlock()

		if !a.suspended {
			return
		}
		a.suspended = false
		log.Info("User became active - resuming blink")
		if err := a.armFromConfig(); err != nil {
			log.Warnf("Failed to resume blink: %v", err)
		}
	})
}

func (a *App) handlers() ui.Handlers {
	return ui.Handlers{
		Status:        a.status,
		Color:         a.changeColor,
		FontBigger:    func() { a.resizeFont(fontStep) },
		FontSmaller:   func() { a.resizeFont(-fontStep) },
		OpacityUp:     func() { a.nudgeOpacity(opacityStep) },
		OpacityDown:   func() { a.nudgeOpacity(-opacityStep) },
		ToggleBlink:   a.toggleBlink,
		BlinkSettings: a.changeBlinkSettings,
		Reset:         a.reset,
		Save:          a.save,
		Quit: func() {
			log.Info("User requested quit")
			a.Shutdown()
			os.Exit(0)
		},
	}
}

func (a *App) status() ui.Status {
	bursts, err := a.statsStore.BurstsSince(stats.StartOfDay(time.Now()))
	if err != nil {
		log.Debugf("Failed to count bursts: %v", err)
	}
	repairs, err := a.statsStore.GetRepairs()
	if err != nil {
		log.Debugf("Failed to list repairs: %v", err)
	}
	return ui.Status{
		Blinking:    a.blinker.State() == blink.StateArmed,
		Opacity:     a.blinker.RestingOpacity(),
		Since:       a.sessionStart(),
		BurstsToday: bursts,
		Repairs:     len(repairs),
	}
}

// sessionStart returns when the recorded session began, or the process
// start time when no session could be recorded
func (a *App) sessionStart() time.Time {
	if a.sessionID == "" {
		return a.startedAt
	}
	started, err := a.statsStore.SessionStartedAt(a.sessionID)
	if err != nil {
		log.Debugf("Failed to read session start: %v", err)
		return a.startedAt
	}
	return started
}

func (a *App) changeColor() {
	input, ok := a.menuBar.PromptColor(a.configManager.Get().Color)
	if !ok {
		return
	}
	color, err := config.NormalizeColor(input)
	if err != nil {
		a.menuBar.ShowError("Invalid color", err)
		return
	}

	a.actionMu.Lock()
	defer a.actionMu.Unlock()
	cfg := a.configManager.Update(func(cfg *config.Config) {
		cfg.Color = color
	})
	a.window.ApplyConfig(cfg)
}

func (a *App) resizeFont(delta int) {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()

	cfg := a.configManager.Update(func(cfg *config.Config) {
		font, err := config.ParseFont(cfg.Font)
		if err != nil {
			font, _ = config.ParseFont(config.DefaultConfig().Font)
		}
		cfg.Font = font.WithSize(font.Size + delta).String()
	})
	a.window.ApplyConfig(cfg)
}

// nudgeOpacity changes the resting opacity; while blinking only the
// opacity restored afterwards changes
func (a *App) nudgeOpacity(delta float64) {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()

	cfg := a.configManager.Update(func(cfg *config.Config) {
		cfg.Opacity = config.ClampOpacity(math.Round((cfg.Opacity+delta)*100) / 100)
	})
	a.blinker.SetRestingOpacity(cfg.Opacity)
}

func (a *App) toggleBlink() {
	a.actionMu.Lock()
	cfg := a.configManager.Get()
	_, err := a.blinker.Toggle(cfg.BlinkPeriod, float64(cfg.BlinkFreq), float64(cfg.BlinkNb))
	a.suspended = false
	a.actionMu.Unlock()

	if err != nil {
		a.menuBar.ShowError("Cannot start blinking", err)
	}
}

// armFromConfig arms the blinker with the saved settings; caller holds actionMu
func (a *App) armFromConfig() error {
	cfg := a.configManager.Get()
	return a.blinker.Arm(cfg.BlinkPeriod, float64(cfg.BlinkFreq), float64(cfg.BlinkNb))
}

func (a *App) changeBlinkSettings() {
	cfg := a.configManager.Get()
	p, f, n, ok := a.menuBar.PromptBlink(
		config.FormatPeriod(cfg.BlinkPeriod),
		strconv.Itoa(cfg.BlinkFreq),
		strconv.Itoa(cfg.BlinkNb),
	)
	if !ok {
		return
	}

	period, freq, count, err := parseBlinkSettings(p, f, n)
	if err != nil {
		a.menuBar.ShowError("Invalid blink settings", err)
		return
	}

	a.actionMu.Lock()
	_, err = a.blinker.Rearm(period, float64(freq), float64(count))
	if err == nil {
		a.configManager.Update(func(cfg *config.Config) {
			cfg.BlinkPeriod = period
			cfg.BlinkFreq = freq
			cfg.BlinkNb = count
		})
	}
	a.actionMu.Unlock()

	if err != nil {
		a.menuBar.ShowError("Invalid blink settings", err)
	}
}

func (a *App) reset() {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()

	a.blinker.Disarm()
	a.suspended = false
	cfg := a.configManager.Reset()
	a.window.ApplyConfig(cfg)
	a.window.SetOpacity(cfg.Opacity)
	log.Info("Settings reset to defaults")
}

func (a *App) save() {
	x, y := a.window.Origin()

	a.actionMu.Lock()
	a.configManager.Update(func(cfg *config.Config) {
		cfg.X, cfg.Y = x, y
	})
	err := a.configManager.Save()
	a.actionMu.Unlock()

	if err != nil {
		log.Warnf("Failed to save settings: %v", err)
		a.menuBar.ShowError("Failed to save settings", err)
		return
	}
	log.WithField("path", a.configManager.Path()).Info("Settings saved")
}

// reportRepair records and announces a regenerated settings file
func (a *App) reportRepair() {
	path := a.configManager.Path()
	backup := config.BackupPath(path)

	if err := a.statsStore.RecordRepair(path, backup); err != nil {
		log.Debugf("Failed to record repair: %v", err)
	}
	msg := fmt.Sprintf("Settings were reset to defaults. The previous file was kept as %s", filepath.Base(backup))
	if err := beeep.Notify("TopWatch", msg, ""); err != nil {
		log.Debugf("Failed to send notification: %v", err)
	}
}

func mainQueue(f func()) {
	dispatch.MainQueue().DispatchAsync(f)
}
