package blink

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/siegfried/topwatch/internal/config"
)

// ErrInvalidParameter is returned by Arm when the period, pulse interval or
// pulse count is not positive
var ErrInvalidParameter = errors.New("invalid blink parameter")

// State represents the current state of the scheduler
type State int

const (
	// StateIdle means no blinking is scheduled
	StateIdle State = iota
	// StateArmed means the period timer is running
	StateArmed
)

// String returns a human-readable string for the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateArmed:
		return "Armed"
	default:
		return "Unknown"
	}
}

// Target is whatever the scheduler fades in and out
type Target interface {
	Opacity() float64
	SetOpacity(float64)
}

// Timer fires its callback repeatedly once started, until stopped.
// Start on a running timer restarts it with the new interval.
type Timer interface {
	Start(interval time.Duration)
	Stop()
}

// TimerFactory builds a stopped Timer calling fire on each tick
type TimerFactory func(fire func()) Timer

// Scheduler drives the blink effect: a period timer starts a burst of
// pulseCount opacity toggles spaced by the pulse interval.
type Scheduler struct {
	state    State
	target   Target
	period   time.Duration
	interval time.Duration
	count    int
	pulses   int
	baseline float64

	periodTimer Timer
	pulseTimer  Timer

	onBurst func(pulses int)

	mu sync.Mutex
}

// New creates an idle scheduler
func New(target Target, newTimer TimerFactory) *Scheduler {
	s := &Scheduler{
		state:  StateIdle,
		target: target,
	}
	s.periodTimer = newTimer(s.onPeriod)
	s.pulseTimer = newTimer(s.onPulse)
	return s
}

// Arm starts blinking. Fractional interval and count values are truncated;
// anything not positive afterwards is rejected with ErrInvalidParameter and
// the scheduler is left untouched. Re-arming an armed scheduler keeps the
// baseline opacity of the first Arm.
func (s *Scheduler) Arm(period time.Duration, pulseIntervalMs, pulseCount float64) error {
	p, err := newParams(period, pulseIntervalMs, pulseCount)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.arm(p)
	return nil
}

// Rearm replaces the blink parameters of an armed scheduler and reports
// whether it was armed. An idle scheduler stays idle; the parameters are
// still validated.
func (s *Scheduler) Rearm(period time.Duration, pulseIntervalMs, pulseCount float64) (bool, error) {
	p, err := newParams(period, pulseIntervalMs, pulseCount)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateArmed {
		return false, nil
	}
	s.arm(p)
	return true, nil
}

// Toggle disarms an armed scheduler or arms an idle one, and reports
// whether the scheduler is armed afterwards
func (s *Scheduler) Toggle(period time.Duration, pulseIntervalMs, pulseCount float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateArmed {
		s.disarm()
		return false, nil
	}

	p, err := newParams(period, pulseIntervalMs, pulseCount)
	if err != nil {
		return false, err
	}
	s.arm(p)
	return true, nil
}

// Disarm stops both timers and restores the opacity seen before Arm.
// It reports whether the scheduler was armed.
func (s *Scheduler) Disarm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateArmed {
		return false
	}
	s.disarm()
	return true
}

// State returns the current state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RestingOpacity returns the opacity shown outside of blinking: the
// baseline while armed, the target's opacity otherwise
func (s *Scheduler) RestingOpacity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateArmed {
		return s.baseline
	}
	return s.target.Opacity()
}

// SetRestingOpacity applies a user opacity change. While armed only the
// opacity restored by Disarm changes.
func (s *Scheduler) SetRestingOpacity(v float64) {
	v = config.ClampOpacity(v)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateArmed {
		s.baseline = v
		return
	}
	s.target.SetOpacity(v)
}

// SetOnBurst sets the callback for when a burst completes
func (s *Scheduler) SetOnBurst(callback func(pulses int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onBurst = callback
}

// onPeriod starts a new burst
func (s *Scheduler) onPeriod() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateArmed {
		return
	}
	s.pulses = 0
	s.pulseTimer.Start(s.interval)
}

// onPulse toggles the opacity and ends the burst after count pulses
func (s *Scheduler) onPulse() {
	s.mu.Lock()
	if s.state != StateArmed {
		s.mu.Unlock()
		return
	}

	s.pulses++
	s.target.SetOpacity(config.ClampOpacity(1 - s.target.Opacity()))
	if s.pulses < s.count {
		s.mu.Unlock()
		return
	}

	s.target.SetOpacity(0)
	s.pulseTimer.Stop()
	pulses := s.pulses
	callback := s.onBurst
	s.mu.Unlock()

	if callback != nil {
		callback(pulses)
	}
}

type params struct {
	period   time.Duration
	interval time.Duration
	count    int
}

func newParams(period time.Duration, pulseIntervalMs, pulseCount float64) (params, error) {
	interval, ok := truncate(pulseIntervalMs)
	if !ok {
		return params{}, fmt.Errorf("%w: pulse interval %v", ErrInvalidParameter, pulseIntervalMs)
	}
	count, ok := truncate(pulseCount)
	if !ok {
		return params{}, fmt.Errorf("%w: pulse count %v", ErrInvalidParameter, pulseCount)
	}
	if period <= 0 {
		return params{}, fmt.Errorf("%w: period %v", ErrInvalidParameter, period)
	}
	return params{
		period:   period,
		interval: time.Duration(interval) * time.Millisecond,
		count:    count,
	}, nil
}

// arm starts the period timer with p; caller holds mu
func (s *Scheduler) arm(p params) {
	if s.state == StateIdle {
		s.baseline = s.target.Opacity()
	}
	s.pulseTimer.Stop()

	s.period = p.period
	s.interval = p.interval
	s.count = p.count
	s.pulses = 0
	s.state = StateArmed

	s.target.SetOpacity(0)
	s.periodTimer.Start(p.period)
}

// disarm stops both timers and restores the baseline; caller holds mu
func (s *Scheduler) disarm() {
	s.periodTimer.Stop()
	s.pulseTimer.Stop()
	s.pulses = 0
	s.state = StateIdle
	s.target.SetOpacity(s.baseline)
}

// truncate drops the fractional part and reports whether the result is positive
func truncate(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	t := math.Trunc(v)
	if t <= 0 || t > math.MaxInt32 {
		return 0, false
	}
	return int(t), true
}
