package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Font weights and styles accepted in a font descriptor
var (
	fontWeights = []string{"light", "normal", "bold"}
	fontStyles  = []string{"normal", "italic"}
)

// Font is the parsed form of the "font" setting
type Font struct {
	Family string
	Size   int
	Weight string
	Style  string
}

// ParseFont parses a "family,size,weight,style" descriptor
func ParseFont(s string) (Font, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Font{}, fmt.Errorf("%w: %q", ErrInvalidFont, s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	f := Font{
		Family: parts[0],
		Weight: strings.ToLower(parts[2]),
		Style:  strings.ToLower(parts[3]),
	}
	if f.Family == "" {
		return Font{}, fmt.Errorf("%w: empty family", ErrInvalidFont)
	}

	size, err := strconv.Atoi(parts[1])
	if err != nil || size <= 0 {
		return Font{}, fmt.Errorf("%w: bad size %q", ErrInvalidFont, parts[1])
	}
	f.Size = size

	if !contains(fontWeights, f.Weight) {
		return Font{}, fmt.Errorf("%w: bad weight %q", ErrInvalidFont, parts[2])
	}
	if !contains(fontStyles, f.Style) {
		return Font{}, fmt.Errorf("%w: bad style %q", ErrInvalidFont, parts[3])
	}
	return f, nil
}

// String returns the descriptor form stored in the settings file
func (f Font) String() string {
	return fmt.Sprintf("%s,%d,%s,%s", f.Family, f.Size, f.Weight, f.Style)
}

// WithSize returns a copy of the font resized, never below 1pt
func (f Font) WithSize(size int) Font {
	if size < 1 {
		size = 1
	}
	f.Size = size
	return f
}

// NormalizeColor validates a hex color and returns its canonical #rrggbb form
func NormalizeColor(s string) (string, error) {
	c, err := parseHex(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// RGB returns the components of a hex color in [0, 1]
func RGB(s string) (r, g, b float64, err error) {
	c, err := parseHex(s)
	if err != nil {
		return 0, 0, 0, err
	}
	return c.R, c.G, c.B, nil
}

func parseHex(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if (len(s) != 4 && len(s) != 7) || s[0] != '#' {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return c, nil
}

// ParsePeriod parses an hh:mm:ss blink period
func ParsePeriod(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
		}
		fields[i] = n
	}
	h, m, sec := fields[0], fields[1], fields[2]
	if m > 59 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}

	d := time.Duration((h*60+m)*60+sec) * time.Second
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return d, nil
}

// FormatPeriod renders a duration as hh:mm:ss, dropping sub-second precision
func FormatPeriod(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
