package overlay

import (
	"github.com/siegfried/topwatch/internal/config"
)

// windowSize fits five characters of the configured font
func windowSize(cfg *config.Config) (float64, float64) {
	size := 30.0
	if f, err := config.ParseFont(cfg.Font); err == nil {
		size = float64(f.Size)
	}
	return size * 3.4, size * 1.6
}

// clampOrigin keeps a saved position on the non-negative quadrant
func clampOrigin(x, y float64) (int, int) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return int(x), int(y)
}
