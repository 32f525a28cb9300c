package blink

import (
	"sync"
	"time"
)

// tickerTimer is a Timer backed by time.Ticker. Ticks are handed to
// dispatch, usually the UI main queue; a tick delivered after Stop or a
// restart is dropped.
type tickerTimer struct {
	fire     func()
	dispatch func(func())

	mu       sync.Mutex
	ticker   *time.Ticker
	stopChan chan struct{}
	gen      uint64
}

// NewTickerFactory returns a TimerFactory whose timers run their callbacks
// through dispatch. A nil dispatch calls them on the ticker goroutine.
func NewTickerFactory(dispatch func(func())) TimerFactory {
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}
	return func(fire func()) Timer {
		return &tickerTimer{fire: fire, dispatch: dispatch}
	}
}

func (t *tickerTimer) Start(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	t.ticker = time.NewTicker(interval)
	t.stopChan = make(chan struct{})

	go t.loop(t.ticker, t.stopChan, t.gen)
}

func (t *tickerTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *tickerTimer) stopLocked() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.stopChan)
	t.ticker = nil
	t.stopChan = nil
	t.gen++
}

func (t *tickerTimer) loop(ticker *time.Ticker, stop chan struct{}, gen uint64) {
	for {
		select {
		case <-ticker.C:
			t.dispatch(func() {
				if t.current(gen) {
					t.fire()
				}
			})
		case <-stop:
			return
		}
	}
}

// current reports whether gen is still the running generation
func (t *tickerTimer) current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticker != nil && t.gen == gen
}
