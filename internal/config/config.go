// Package config holds the daemon configuration: defaults, optional YAML
// file, validation. This is rig wiring (pins, broker, poll rates, policy),
// not the persisted sampling settings; those live in internal/store.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/water-sampler/internal/gpio"
)

// Duration wraps time.Duration for YAML fields written as "250ms", "15m".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard-library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Pins maps the rig's GPIO assignments (BCM numbering).
type Pins struct {
	Pumps    [gpio.NumPumps]int `yaml:"pumps"`
	Float    int                `yaml:"float"`
	Advance  int                `yaml:"advance"`
	Increase int                `yaml:"increase"`
	Decrease int                `yaml:"decrease"`
}

// Config is the full daemon configuration.
type Config struct {
	// Poll is the input sampling and scheduler tick interval.
	Poll Duration `yaml:"poll"`
	// FloatDebounce is how long the float level must hold before an event.
	FloatDebounce Duration `yaml:"float-debounce"`
	// ButtonDebounce is the button line debounce.
	ButtonDebounce Duration `yaml:"button-debounce"`
	// HoldAfter is how long a press counts as a hold.
	HoldAfter Duration `yaml:"hold-after"`
	// DoubleWithin is the double-press window.
	DoubleWithin Duration `yaml:"double-within"`
	// Blink is the edit-digit blink half-period.
	Blink Duration `yaml:"blink"`
	// Render is the display refresh interval.
	Render Duration `yaml:"render"`
	// Notice is how long transient messages stay on screen.
	Notice Duration `yaml:"notice"`

	// Broker is the MQTT broker address, empty to disable telemetry.
	Broker string `yaml:"broker"`
	// Heartbeat is the MQTT heartbeat interval, 0 to disable.
	Heartbeat Duration `yaml:"heartbeat"`
	// HTTPAddr is the status server address, empty to disable.
	HTTPAddr string `yaml:"http"`
	// DBPath is the persisted-settings database file.
	DBPath string `yaml:"db"`

	// StopOnWaterLoss enables the water-loss cutoff: stop and disarm when
	// the float drops mid-sequence. Off matches the original rig.
	StopOnWaterLoss bool `yaml:"stop-on-water-loss"`

	Pins Pins `yaml:"pins"`
}

// Default returns the stock configuration for a standard rig build.
func Default() Config {
	return Config{
		Poll:           Duration(20 * time.Millisecond),
		FloatDebounce:  Duration(250 * time.Millisecond),
		ButtonDebounce: Duration(30 * time.Millisecond),
		HoldAfter:      Duration(600 * time.Millisecond),
		DoubleWithin:   Duration(400 * time.Millisecond),
		Blink:          Duration(500 * time.Millisecond),
		Render:         Duration(100 * time.Millisecond),
		Notice:         Duration(800 * time.Millisecond),
		Broker:         "tcp://192.168.1.200:1883",
		Heartbeat:      Duration(15 * time.Minute),
		HTTPAddr:       ":8080",
		DBPath:         "/var/lib/water-sampler/settings.db",
		Pins: Pins{
			Pumps:    gpio.DefaultPumpPins,
			Float:    gpio.DefaultPinFloat,
			Advance:  gpio.DefaultPinAdvance,
			Increase: gpio.DefaultPinIncrease,
			Decrease: gpio.DefaultPinDecrease,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the config for errors.
func (c Config) Validate() error {
	if c.Poll.Std() <= 0 {
		return fmt.Errorf("config: 'poll' must be positive")
	}
	if c.FloatDebounce.Std() < 0 || c.ButtonDebounce.Std() < 0 {
		return fmt.Errorf("config: debounce durations must not be negative")
	}
	if c.HoldAfter.Std() <= 0 {
		return fmt.Errorf("config: 'hold-after' must be positive")
	}
	if c.Blink.Std() <= 0 || c.Render.Std() <= 0 {
		return fmt.Errorf("config: 'blink' and 'render' must be positive")
	}
	if c.DBPath == "" {
		return fmt.Errorf("config: 'db' is required")
	}
	seen := make(map[int]bool)
	for i, pin := range c.Pins.Pumps {
		if pin <= 0 {
			return fmt.Errorf("config: pins: pump %d must be a positive BCM pin", i+1)
		}
		if seen[pin] {
			return fmt.Errorf("config: pins: pin %d assigned twice", pin)
		}
		seen[pin] = true
	}
	for _, pin := range []int{c.Pins.Float, c.Pins.Advance, c.Pins.Increase, c.Pins.Decrease} {
		if pin <= 0 {
			return fmt.Errorf("config: pins: input pins must be positive BCM pins")
		}
		if seen[pin] {
			return fmt.Errorf("config: pins: pin %d assigned twice", pin)
		}
		seen[pin] = true
	}
	return nil
}
