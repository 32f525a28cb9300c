package config

import "time"

// Keys of the settings file, in the order they are written
const (
	KeyFont        = "font"
	KeyColor       = "color"
	KeyX           = "x"
	KeyY           = "y"
	KeyOpacity     = "opacity"
	KeyBlinkPeriod = "blinkPeriod"
	KeyBlinkFreq   = "blinkFreq"
	KeyBlinkNb     = "blinkNb"
)

// RequiredKeys lists every key a settings file must contain
var RequiredKeys = []string{
	KeyFont,
	KeyColor,
	KeyX,
	KeyY,
	KeyOpacity,
	KeyBlinkPeriod,
	KeyBlinkFreq,
	KeyBlinkNb,
}

// Blink pulse interval bounds in milliseconds
const (
	MinBlinkFreq = 50
	MaxBlinkFreq = 10000
)

// Config holds all user settings of the clock widget
type Config struct {
	Font        string
	Color       string
	X           int
	Y           int
	Opacity     float64
	BlinkPeriod time.Duration
	BlinkFreq   int
	BlinkNb     int
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Font:        "Menlo,30,bold,normal",
		Color:       "#ffdd1c",
		X:           0,
		Y:           0,
		Opacity:     1,
		BlinkPeriod: time.Minute,
		BlinkFreq:   100,
		BlinkNb:     3,
	}
}

// Clone returns a copy that can be mutated independently
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ClampOpacity limits an opacity value to [0, 1]
func ClampOpacity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// fileConfig is the on-disk shape of Config
type fileConfig struct {
	Font        string  `yaml:"font"`
	Color       string  `yaml:"color"`
	X           int     `yaml:"x"`
	Y           int     `yaml:"y"`
	Opacity     float64 `yaml:"opacity"`
	BlinkPeriod string  `yaml:"blinkPeriod"`
	BlinkFreq   int     `yaml:"blinkFreq"`
	BlinkNb     int     `yaml:"blinkNb"`
}

func toFile(c *Config) fileConfig {
	return fileConfig{
		Font:        c.Font,
		Color:       c.Color,
		X:           c.X,
		Y:           c.Y,
		Opacity:     c.Opacity,
		BlinkPeriod: FormatPeriod(c.BlinkPeriod),
		BlinkFreq:   c.BlinkFreq,
		BlinkNb:     c.BlinkNb,
	}
}
