package ggchart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("ggchart: invalid config")

// Config holds the tunables of a Composer. The zero-valued fields of a
// loaded file keep their defaults.
type Config struct {
	// Name identifies the composer in linked groups and update sources.
	Name string `yaml:"name"`

	// ItemSize is the fraction of one index step covered by boxes and
	// candle bodies.
	ItemSize float64 `yaml:"item_size"`

	// Padding is the fraction of the value range added above and below.
	Padding float64 `yaml:"padding"`

	IndexTicks int `yaml:"index_ticks"`
	ValueTicks int `yaml:"value_ticks"`

	// ValueSteps and Guard tune the zoom reducers; see Reducer.
	ValueSteps float64 `yaml:"value_steps"`
	Guard      float64 `yaml:"guard"`

	// ZoomModifier is the key that switches the wheel from panning to
	// zooming: "shift", "ctrl" or "alt".
	ZoomModifier string `yaml:"zoom_modifier"`
}

// DefaultConfig returns the stock composer settings.
func DefaultConfig() Config {
	return Config{
		ItemSize:     0.5,
		Padding:      0,
		IndexTicks:   9,
		ValueTicks:   3,
		ValueSteps:   DefaultValueSteps,
		Guard:        DefaultGuard,
		ZoomModifier: "shift",
	}
}

// Validate checks the config for values the composer cannot work with.
func (c Config) Validate() error {
	switch {
	case c.IndexTicks < 0 || c.ValueTicks < 0:
		return fmt.Errorf("%w: negative tick count", ErrInvalidConfig)
	case c.ItemSize < 0 || c.ItemSize > 1:
		return fmt.Errorf("%w: item size %v outside [0, 1]", ErrInvalidConfig, c.ItemSize)
	case c.Padding < 0:
		return fmt.Errorf("%w: negative padding", ErrInvalidConfig)
	case c.ValueSteps < 0 || c.Guard < 0:
		return fmt.Errorf("%w: negative zoom tuning", ErrInvalidConfig)
	}
	if _, err := ParseModifier(c.ZoomModifier); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Reducer returns the reducer tuned by c.
func (c Config) Reducer() Reducer {
	return Reducer{IndexTicks: c.IndexTicks, ValueSteps: c.ValueSteps, Guard: c.Guard}
}

// LoadConfig reads a YAML config from fs. Fields absent from the file keep
// their DefaultConfig values.
func LoadConfig(fs afero.Fs, path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, fmt.Errorf("ggchart: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("ggchart: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	Logger().Debug("ggchart: config loaded", "path", path, "name", cfg.Name)
	return cfg, nil
}

// ParseModifier parses a modifier key name. The empty string means none.
func ParseModifier(name string) (Modifiers, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return 0, nil
	case "shift":
		return ModShift, nil
	case "ctrl", "control":
		return ModCtrl, nil
	case "alt":
		return ModAlt, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", name)
}
