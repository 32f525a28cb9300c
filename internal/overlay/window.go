//go:build darwin

package overlay

import (
	"sync"
	"time"

	"github.com/progrium/darwinkit/dispatch"
	"github.com/progrium/darwinkit/macos/appkit"
	"github.com/progrium/darwinkit/macos/foundation"
	"github.com/progrium/darwinkit/objc"
	log "github.com/sirupsen/logrus"

	"github.com/siegfried/topwatch/internal/config"
)

const originTimeout = time.Second

// Window is the borderless, always-on-top clock window
type Window struct {
	mu      sync.Mutex
	opacity float64
	text    string
	origin  foundation.Point
	created bool

	window appkit.Window
	label  appkit.TextField
}

// NewWindow creates a window manager; nothing is shown until Show
func NewWindow(cfg *config.Config) *Window {
	return &Window{
		opacity: config.ClampOpacity(cfg.Opacity),
		origin:  foundation.Point{X: float64(cfg.X), Y: float64(cfg.Y)},
	}
}

// Show creates the window on the main thread with the given settings
func (w *Window) Show(cfg *config.Config) {
	snapshot := cfg.Clone()
	dispatch.MainQueue().DispatchAsync(func() {
		w.createWindow(snapshot)
	})
}

// SetText replaces the clock text
func (w *Window) SetText(text string) {
	w.mu.Lock()
	w.text = text
	w.mu.Unlock()

	dispatch.MainQueue().DispatchAsync(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.created {
			w.label.SetStringValue(text)
		}
	})
}

// Opacity returns the last opacity applied to the window
func (w *Window) Opacity() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opacity
}

// SetOpacity clamps v to [0, 1] and applies it as the window alpha
func (w *Window) SetOpacity(v float64) {
	v = config.ClampOpacity(v)

	w.mu.Lock()
	w.opacity = v
	w.mu.Unlock()

	dispatch.MainQueue().DispatchAsync(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.created {
			w.window.SetAlphaValue(v)
		}
	})
}

// ApplyConfig updates font, color and position from cfg
func (w *Window) ApplyConfig(cfg *config.Config) {
	snapshot := cfg.Clone()
	dispatch.MainQueue().DispatchAsync(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.created {
			return
		}
		w.styleLabel(snapshot)
		w.resize(snapshot)
		w.window.SetFrameOrigin(foundation.Point{X: float64(snapshot.X), Y: float64(snapshot.Y)})
	})
}

// Origin returns the window position, following drags by the user.
// The frame is read on the main queue; it must not be called from there.
func (w *Window) Origin() (x, y int) {
	done := make(chan struct{})
	dispatch.MainQueue().DispatchAsync(func() {
		defer close(done)
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.created {
			w.origin = w.window.Frame().Origin
		}
	})
	select {
	case <-done:
	case <-time.After(originTimeout):
		log.Warn("Timed out reading the window position, using the last known one")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return clampOrigin(w.origin.X, w.origin.Y)
}

// Close hides and releases the window
func (w *Window) Close() {
	dispatch.MainQueue().DispatchAsync(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.created {
			return
		}
		w.window.OrderOut(nil)
		w.window.Close()
		w.created = false
	})
}

// createWindow builds the window and label
func (w *Window) createWindow(cfg *config.Config) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.created {
		return
	}

	width, height := windowSize(cfg)
	frame := foundation.Rect{
		Origin: w.origin,
		Size:   foundation.Size{Width: width, Height: height},
	}

	// Create borderless window (styleMask = 0)
	win := appkit.NewWindowWithContentRectStyleMaskBackingDefer(
		frame,
		0, // Borderless
		appkit.BackingStoreBuffered,
		false,
	)
	objc.Retain(&win)

	// Transparent background, only the text is drawn
	win.SetOpaque(false)
	win.SetHasShadow(false)
	win.SetBackgroundColor(appkit.Color_ClearColor())
	win.SetLevel(appkit.FloatingWindowLevel)
	win.SetMovableByWindowBackground(true)
	win.SetCollectionBehavior(
		appkit.WindowCollectionBehaviorCanJoinAllSpaces |
			appkit.WindowCollectionBehaviorStationary,
	)
	win.SetAlphaValue(w.opacity)

	label := appkit.NewLabel(w.text)
	label.SetAlignment(appkit.TextAlignmentCenter)
	label.SetBackgroundColor(appkit.Color_ClearColor())
	label.SetBezeled(false)
	label.SetEditable(false)
	label.SetSelectable(false)
	label.SetFrame(foundation.Rect{Size: frame.Size})

	w.window = win
	w.label = label
	w.styleLabel(cfg)

	view := appkit.NewViewWithFrame(foundation.Rect{Size: frame.Size})
	view.AddSubview(label)
	win.SetContentView(view)

	win.OrderFrontRegardless()
	w.created = true
}

// styleLabel applies the configured font and color; caller holds mu
func (w *Window) styleLabel(cfg *config.Config) {
	font, err := config.ParseFont(cfg.Font)
	if err != nil {
		log.WithError(err).Warn("Invalid font, using default")
		font, _ = config.ParseFont(config.DefaultConfig().Font)
	}
	w.label.SetFont(nsFont(font))

	r, g, b, err := config.RGB(cfg.Color)
	if err != nil {
		log.WithError(err).Warn("Invalid color, using default")
		r, g, b, _ = config.RGB(config.DefaultConfig().Color)
	}
	w.label.SetTextColor(appkit.Color_ColorWithSRGBRedGreenBlueAlpha(r, g, b, 1))
}

// resize fits the window and label to the font size; caller holds mu
func (w *Window) resize(cfg *config.Config) {
	width, height := windowSize(cfg)
	size := foundation.Size{Width: width, Height: height}
	w.window.SetContentSize(size)
	w.label.SetFrame(foundation.Rect{Size: size})
}

// nsFont resolves a font by family name, falling back to the system font.
// The style is kept in the settings but not rendered.
func nsFont(f config.Font) appkit.Font {
	size := float64(f.Size)
	if font := appkit.Font_FontWithNameSize(f.Family, size); !font.IsNil() {
		return font
	}

	weight := appkit.FontWeightRegular
	switch f.Weight {
	case "bold":
		weight = appkit.FontWeightBold
	case "light":
		weight = appkit.FontWeightLight
	}
	return appkit.Font_SystemFontOfSizeWeight(size, weight)
}
