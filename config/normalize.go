package config

import (
	"strings"

	"github.com/matt-g-everett/cardtx/reveal"
)

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.normalizeMQTT()
	c.normalizeHTTP()
	for i := range c.Sequences {
		c.Sequences[i].normalize()
	}
}

func (c *Config) normalizeMQTT() {
	m := &c.MQTT
	m.URL = strings.TrimSpace(m.URL)
	if m.URL == "" {
		m.URL = defaultMQTTURL
	}
	m.ClientID = strings.TrimSpace(m.ClientID)
	if m.ClientID == "" {
		m.ClientID = defaultClientID
	}
	m.Topics.Progress = strings.TrimRight(strings.TrimSpace(m.Topics.Progress), "/")
	if m.Topics.Progress == "" {
		m.Topics.Progress = defaultProgressPrefix
	}
	m.Topics.States = strings.TrimRight(strings.TrimSpace(m.Topics.States), "/")
	if m.Topics.States == "" {
		m.Topics.States = defaultStatesPrefix
	}
}

func (c *Config) normalizeHTTP() {
	c.HTTP.Addr = strings.TrimSpace(c.HTTP.Addr)
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = defaultHTTPAddr
	}
	c.HTTP.StaticDir = strings.TrimSpace(c.HTTP.StaticDir)
}

func (s *Sequence) normalize() {
	s.Name = strings.TrimSpace(s.Name)
	if s.Cards == 0 {
		s.Cards = defaultCards
	}
	if s.OffsetMax == 0 {
		s.OffsetMax = reveal.DefaultOffsetMax
	}
	if s.ScaleMin == 0 {
		s.ScaleMin = reveal.DefaultScaleMin
	}
	s.Easing = strings.ToLower(strings.TrimSpace(s.Easing))
	if s.Easing == "" {
		s.Easing = "linear"
	}
	s.Background = strings.TrimSpace(s.Background)
	if s.Background == "" {
		s.Background = defaultBackground
	}
	for i, p := range s.Palette {
		s.Palette[i] = strings.TrimSpace(p)
	}
}
