// Package clock keeps the clock label in sync with the wall clock.
package clock

import (
	"sync"
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultLayout shows hours and minutes
const DefaultLayout = "%H:%M"

// Label is the text the display writes to
//
//go:generate mockgen -source=display.go -destination=mock_label_test.go -package=clock
type Label interface {
	SetText(text string)
}

// Display refreshes a label every second, redrawing only when the
// formatted time changes.
type Display struct {
	label  Label
	layout string
	now    func() time.Time

	mu       sync.Mutex
	shown    string
	ticker   *time.Ticker
	stopChan chan struct{}
}

// NewDisplay creates a display writing the time in layout, a strftime
// format, to label
func NewDisplay(label Label, layout string) *Display {
	if layout == "" {
		layout = DefaultLayout
	}
	return &Display{
		label:  label,
		layout: layout,
		now:    time.Now,
	}
}

// Refresh formats t and updates the label if the text changed
func (d *Display) Refresh(t time.Time) bool {
	text := strftime.Format(d.layout, t)

	d.mu.Lock()
	if text == d.shown {
		d.mu.Unlock()
		return false
	}
	d.shown = text
	d.mu.Unlock()

	d.label.SetText(text)
	return true
}

// text returns what the label currently shows
func (d *Display) text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}

// Start draws the current time and keeps it up to date every second.
// Ticks are run through dispatch, or directly when dispatch is nil.
func (d *Display) Start(dispatch func(func())) {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}

	d.mu.Lock()
	if d.ticker != nil {
		d.mu.Unlock()
		return
	}
	d.ticker = time.NewTicker(time.Second)
	d.stopChan = make(chan struct{})
	ticker, stop := d.ticker, d.stopChan
	d.mu.Unlock()

	dispatch(func() { d.Refresh(d.now()) })

	go func() {
		for {
			select {
			case <-ticker.C:
				dispatch(func() { d.Refresh(d.now()) })
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the refresh ticker
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ticker == nil {
		return
	}
	d.ticker.Stop()
	close(d.stopChan)
	d.ticker = nil
}
