package overlay

import (
	"testing"

	"github.com/siegfried/topwatch/internal/config"
)

func TestWindowSizeFollowsFont(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Font = "Menlo,20,bold,normal"
	w, h := windowSize(cfg)
	if w != 68 || h != 32 {
		t.Fatalf("unexpected size %vx%v", w, h)
	}

	cfg.Font = "broken"
	w, h = windowSize(cfg)
	if w != 102 || h != 48 {
		t.Fatalf("invalid font should size for 30pt, got %vx%v", w, h)
	}
}

func TestClampOrigin(t *testing.T) {
	tests := []struct {
		x, y   float64
		wx, wy int
	}{
		{120.7, 40.2, 120, 40},
		{-15, 30, 0, 30},
		{10, -1, 10, 0},
	}
	for _, tt := range tests {
		if x, y := clampOrigin(tt.x, tt.y); x != tt.wx || y != tt.wy {
			t.Errorf("clampOrigin(%v, %v) = %d, %d", tt.x, tt.y, x, y)
		}
	}
}
