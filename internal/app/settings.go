package app

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/siegfried/topwatch/internal/blink"
	"github.com/siegfried/topwatch/internal/config"
)

// parseBlinkSettings applies the settings file rules to menu input
func parseBlinkSettings(p, f, n string) (time.Duration, int, int, error) {
	period, err := config.ParsePeriod(p)
	if err != nil {
		return 0, 0, 0, err
	}
	freq, err := strconv.ParseFloat(f, 64)
	if err != nil || math.IsNaN(freq) {
		return 0, 0, 0, fmt.Errorf("%w: pulse interval %q", blink.ErrInvalidParameter, f)
	}
	count, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsNaN(count) || math.Trunc(count) < 1 {
		return 0, 0, 0, fmt.Errorf("%w: pulse count %q", blink.ErrInvalidParameter, n)
	}
	return period, config.ClampBlinkFreq(freq), int(math.Min(math.Trunc(count), math.MaxInt32)), nil
}
