//go:build darwin

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/caseymrm/menuet"
	"github.com/dustin/go-humanize"
)

// Status is what the menu shows about the running widget
type Status struct {
	Blinking    bool
	Opacity     float64
	Since       time.Time
	BurstsToday int
	Repairs     int
}

// Handlers are the actions behind the menu items
type Handlers struct {
	Status        func() Status
	Color         func()
	FontBigger    func()
	FontSmaller   func()
	OpacityUp     func()
	OpacityDown   func()
	ToggleBlink   func()
	BlinkSettings func()
	Reset         func()
	Save          func()
	Quit          func()
}

// MenuBar manages the menu bar application UI
type MenuBar struct {
	handlers Handlers
}

// NewMenuBar creates a new menu bar UI
func NewMenuBar(h Handlers) *MenuBar {
	return &MenuBar{handlers: h}
}

// Start initializes and runs the menu bar; it blocks until quit
func (m *MenuBar) Start() {
	menuet.App().Label = "com.topwatch.app"
	menuet.App().Children = m.menuItems
	menuet.App().SetMenuState(&menuet.MenuState{
		Title: "⏱",
	})

	menuet.App().RunApplication()
}

// PromptColor asks for a hex text color. ok is false when cancelled.
func (m *MenuBar) PromptColor(current string) (string, bool) {
	clicked := menuet.App().Alert(menuet.Alert{
		MessageText:     "Text color",
		InformativeText: "Hex color such as #ffdd1c",
		Buttons:         []string{"Apply", "Cancel"},
		Inputs:          []string{current},
	})
	if clicked.Button != 0 || len(clicked.Inputs) == 0 {
		return "", false
	}
	return strings.TrimSpace(clicked.Inputs[0]), true
}

// PromptBlink asks for the blink period, pulse interval and pulse count.
// Empty answers keep the current values.
func (m *MenuBar) PromptBlink(period, freq, count string) (string, string, string, bool) {
	clicked := menuet.App().Alert(menuet.Alert{
		MessageText:     "Blink settings",
		InformativeText: "Period (hh:mm:ss), pulse interval (ms), pulses per burst",
		Buttons:         []string{"Apply", "Cancel"},
		Inputs:          []string{period, freq, count},
	})
	if clicked.Button != 0 || len(clicked.Inputs) < 3 {
		return "", "", "", false
	}
	return orDefault(clicked.Inputs[0], period),
		orDefault(clicked.Inputs[1], freq),
		orDefault(clicked.Inputs[2], count),
		true
}

// ShowError reports a rejected action
func (m *MenuBar) ShowError(title string, err error) {
	menuet.App().Alert(menuet.Alert{
		MessageText:     title,
		InformativeText: err.Error(),
		Buttons:         []string{"OK"},
	})
}

// menuItems returns the menu items for the menu bar
func (m *MenuBar) menuItems() []menuet.MenuItem {
	status := Status{}
	if m.handlers.Status != nil {
		status = m.handlers.Status()
	}

	items := []menuet.MenuItem{
		{Text: statusLine(status, time.Now())},
		{Text: fmt.Sprintf("Blink bursts today: %s", humanize.Comma(int64(status.BurstsToday)))},
		{Text: fmt.Sprintf("Opacity: %.0f%%", status.Opacity*100)},
	}
	if status.Repairs > 0 {
		items = append(items, menuet.MenuItem{
			Text: fmt.Sprintf("Settings repaired %s times", humanize.Comma(int64(status.Repairs))),
		})
	}
	items = append(items, []menuet.MenuItem{
		{Type: menuet.Separator},
		{Text: "Text color…", Clicked: call(m.handlers.Color)},
		{
			Text: "Font",
			Children: func() []menuet.MenuItem {
				return []menuet.MenuItem{
					{Text: "Bigger", Clicked: call(m.handlers.FontBigger)},
					{Text: "Smaller", Clicked: call(m.handlers.FontSmaller)},
				}
			},
		},
		{
			Text: "Opacity",
			Children: func() []menuet.MenuItem {
				return []menuet.MenuItem{
					{Text: "Increase", Clicked: call(m.handlers.OpacityUp)},
					{Text: "Decrease", Clicked: call(m.handlers.OpacityDown)},
				}
			},
		},
		{Type: menuet.Separator},
		{Text: "Blink", State: status.Blinking, Clicked: call(m.handlers.ToggleBlink)},
		{Text: "Blink settings…", Clicked: call(m.handlers.BlinkSettings)},
		{Type: menuet.Separator},
		{Text: "Reset settings", Clicked: call(m.handlers.Reset)},
		{Text: "Save settings", Clicked: call(m.handlers.Save)},
		{Type: menuet.Separator},
		{Text: "Quit", Clicked: call(m.handlers.Quit)},
	}...)

	return items
}

// statusLine describes how long the widget has been running
func statusLine(s Status, now time.Time) string {
	if s.Since.IsZero() {
		return "TopWatch"
	}
	return "Started " + humanize.RelTime(s.Since, now, "ago", "from now")
}

func call(f func()) func() {
	return func() {
		if f != nil {
			f()
		}
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
