package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/matt-g-everett/cardtx/reveal"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	if err := c.validateMQTT(); err != nil {
		return err
	}
	if err := c.validateSequences(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogLevel() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel)
}

func (c *Config) validateMQTT() error {
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2 (got %d)", c.MQTT.QoS)
	}
	if c.MQTT.Topics.Progress == c.MQTT.Topics.States {
		return fmt.Errorf("mqtt.topics.progress and mqtt.topics.states must differ (both %q)", c.MQTT.Topics.States)
	}
	return nil
}

func (c *Config) validateSequences() error {
	if len(c.Sequences) == 0 {
		return fmt.Errorf("at least one sequence is required")
	}
	seen := make(map[string]bool, len(c.Sequences))
	for i, s := range c.Sequences {
		if s.Name == "" {
			return fmt.Errorf("sequences[%d].name is required", i)
		}
		if strings.ContainsAny(s.Name, "/+#") {
			return fmt.Errorf("sequences[%d].name %q must not contain MQTT topic characters", i, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("sequences[%d].name %q is duplicated", i, s.Name)
		}
		seen[s.Name] = true
		if err := s.validate(); err != nil {
			return fmt.Errorf("sequence %q: %w", s.Name, err)
		}
	}
	return nil
}

func (s Sequence) validate() error {
	if _, err := reveal.Configure(s.Cards, reveal.WithOffsetMax(s.OffsetMax), reveal.WithScaleMin(s.ScaleMin)); err != nil {
		return err
	}
	// Frames carry the card count and changed indices as uint16.
	if s.Cards > math.MaxUint16 {
		return fmt.Errorf("cards must be at most %d (got %d)", math.MaxUint16, s.Cards)
	}
	if _, err := reveal.EasingByName(s.Easing); err != nil {
		return err
	}
	if s.LutSize < 0 {
		return fmt.Errorf("lut_size must not be negative (got %d)", s.LutSize)
	}
	if _, err := colorful.Hex(s.Background); err != nil {
		return fmt.Errorf("background %q: %w", s.Background, err)
	}
	for _, p := range s.Palette {
		if _, err := colorful.Hex(p); err != nil {
			return fmt.Errorf("palette colour %q: %w", p, err)
		}
	}
	return nil
}
