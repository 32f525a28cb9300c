package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	appName        = "TopWatch"
	configFileName = "settings.yaml"

	// BackupPrefix is prepended to the file name of a corrupted settings file
	BackupPrefix = "_"
)

// Manager owns the in-memory settings of a session and the file they come from.
// It is safe for concurrent use; callers work on copies and write changes
// back through Update.
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
	repaired   bool
}

// NewManager loads the settings at path, creating or repairing the file as needed
func NewManager(path string) *Manager {
	cfg, repaired := LoadOrInit(path)
	return &Manager{
		configPath: path,
		config:     cfg,
		repaired:   repaired,
	}
}

// Get returns a copy of the current configuration
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current().Clone()
}

// Update applies fn to the current configuration and returns a copy of the
// result. Nothing is written until Save.
func (m *Manager) Update(fn func(cfg *Config)) *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.current())
	return m.config.Clone()
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	return Save(m.configPath, m.Get())
}

// Reset restores every setting to its default without touching the file
func (m *Manager) Reset() *Config {
	return m.Update(func(cfg *Config) {
		*cfg = *DefaultConfig()
	})
}

// current returns the live configuration; caller holds mu
func (m *Manager) current() *Config {
	if m.config == nil {
		m.config = DefaultConfig()
	}
	return m.config
}

// Repaired reports whether the file was regenerated at load time
func (m *Manager) Repaired() bool {
	return m.repaired
}

// Path returns the settings file path
func (m *Manager) Path() string {
	return m.configPath
}

// LoadOrInit reads the settings file at path. A missing file is created with
// defaults. A file that cannot be parsed or lacks a required key is renamed
// with BackupPrefix and regenerated; the bool result reports that case.
// Individual invalid values fall back to their default with a warning.
func LoadOrInit(path string) (*Config, bool) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Info("Settings file not found, writing defaults")
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			log.WithError(err).Warn("Failed to write default settings")
		}
		return cfg, false
	}
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("Failed to read settings, using defaults")
		return DefaultConfig(), false
	}

	raw, err := parse(data)
	if err != nil {
		return regenerate(path, err), true
	}
	if missing := missingKeys(raw); len(missing) > 0 {
		return regenerate(path, fmt.Errorf("%w: %s", ErrConfigKeyMissing, strings.Join(missing, ", "))), true
	}

	return decode(raw), false
}

// Save writes every setting to path, replacing whatever the file contained
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigDirCreation, err)
	}

	data, err := yaml.Marshal(toFile(cfg))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BackupPath returns where a corrupted settings file is moved to
func BackupPath(path string) string {
	return filepath.Join(filepath.Dir(path), BackupPrefix+filepath.Base(path))
}

// DefaultDir returns the application's config directory
// On macOS: ~/Library/Application Support/TopWatch
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Application Support", appName), nil
}

// DefaultPath returns the settings file inside DefaultDir
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// regenerate backs up the file at path, writes defaults and reads them back
func regenerate(path string, cause error) *Config {
	backup := BackupPath(path)
	log.WithError(cause).WithFields(log.Fields{
		"path":   path,
		"backup": backup,
	}).Warn("Settings file is corrupted or outdated, backing it up and writing defaults")

	if err := os.Rename(path, backup); err != nil {
		log.WithError(err).Warn("Failed to back up settings file, leaving it in place")
		return DefaultConfig()
	}
	if err := Save(path, DefaultConfig()); err != nil {
		log.WithError(err).Warn("Failed to write default settings")
		return DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("Failed to read regenerated settings")
		return DefaultConfig()
	}
	raw, err := parse(data)
	if err != nil {
		log.WithError(err).Warn("Regenerated settings are unreadable, using defaults")
		return DefaultConfig()
	}
	if missing := missingKeys(raw); len(missing) > 0 {
		log.WithField("missing", strings.Join(missing, ", ")).Warn("Regenerated settings are incomplete, using defaults")
		return DefaultConfig()
	}
	return decode(raw)
}

func parse(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnparsable, err)
	}
	return raw, nil
}

func missingKeys(raw map[string]interface{}) []string {
	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// decode copies every valid value of raw over the defaults
func decode(raw map[string]interface{}) *Config {
	config := DefaultConfig()

	if s, ok := raw[KeyFont].(string); ok {
		if f, err := ParseFont(s); err == nil {
			config.Font = f.String()
		} else {
			warnInvalid(KeyFont, raw[KeyFont], config.Font)
		}
	} else {
		warnInvalid(KeyFont, raw[KeyFont], config.Font)
	}

	if s, ok := raw[KeyColor].(string); ok {
		if c, err := NormalizeColor(s); err == nil {
			config.Color = c
		} else {
			warnInvalid(KeyColor, raw[KeyColor], config.Color)
		}
	} else {
		warnInvalid(KeyColor, raw[KeyColor], config.Color)
	}

	if v, ok := asInt(raw[KeyX]); ok && v >= 0 {
		config.X = v
	} else {
		warnInvalid(KeyX, raw[KeyX], config.X)
	}
	if v, ok := asInt(raw[KeyY]); ok && v >= 0 {
		config.Y = v
	} else {
		warnInvalid(KeyY, raw[KeyY], config.Y)
	}

	if v, ok := asNumber(raw[KeyOpacity]); ok && !math.IsNaN(v) && v >= 0 && v <= 1 {
		config.Opacity = v
	} else {
		warnInvalid(KeyOpacity, raw[KeyOpacity], config.Opacity)
	}

	if s, ok := raw[KeyBlinkPeriod].(string); ok {
		if d, err := ParsePeriod(s); err == nil {
			config.BlinkPeriod = d
		} else {
			warnInvalid(KeyBlinkPeriod, raw[KeyBlinkPeriod], FormatPeriod(config.BlinkPeriod))
		}
	} else {
		warnInvalid(KeyBlinkPeriod, raw[KeyBlinkPeriod], FormatPeriod(config.BlinkPeriod))
	}

	if v, ok := asNumber(raw[KeyBlinkFreq]); ok && !math.IsNaN(v) {
		freq := ClampBlinkFreq(v)
		if float64(freq) != v {
			log.WithFields(log.Fields{"key": KeyBlinkFreq, "value": v}).
				Warnf("blink frequency adjusted to %d ms", freq)
		}
		config.BlinkFreq = freq
	} else {
		warnInvalid(KeyBlinkFreq, raw[KeyBlinkFreq], config.BlinkFreq)
	}

	if v, ok := asInt(raw[KeyBlinkNb]); ok && v >= 1 {
		config.BlinkNb = v
	} else {
		warnInvalid(KeyBlinkNb, raw[KeyBlinkNb], config.BlinkNb)
	}

	return config
}

func warnInvalid(key string, value, fallback interface{}) {
	log.WithError(ErrConfigValueInvalid).WithFields(log.Fields{
		"key":   key,
		"value": value,
	}).Warnf("Using default %v", fallback)
}

// ClampBlinkFreq truncates a pulse interval to whole milliseconds and
// limits it to [MinBlinkFreq, MaxBlinkFreq]
func ClampBlinkFreq(v float64) int {
	t := math.Trunc(v)
	if t < MinBlinkFreq {
		return MinBlinkFreq
	}
	if t > MaxBlinkFreq {
		return MaxBlinkFreq
	}
	return int(t)
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// asInt accepts whole numbers only, including floats such as 3.0
func asInt(v interface{}) (int, bool) {
	f, ok := asNumber(v)
	if !ok || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
