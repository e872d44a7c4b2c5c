package config

import "github.com/matt-g-everett/cardtx/reveal"

const (
	defaultMQTTURL        = "tcp://localhost:1883"
	defaultClientID       = "cardtx"
	defaultProgressPrefix = "cardtx/progress"
	defaultStatesPrefix   = "cardtx/states"
	defaultHTTPAddr       = ":3000"
	defaultStaticDir      = "client/dist"
	defaultLogLevel       = "info"
	defaultSequenceName   = "services"
	defaultCards          = 6
	defaultBackground     = "#050816"
)

// DefaultPalette alternates the two brand purples.
var DefaultPalette = []string{"#915EFF", "#7c3aed"}

// Default returns the built-in configuration: one six card sequence.
func Default() Config {
	return Config{
		LogLevel: defaultLogLevel,
		MQTT: MQTT{
			Enabled:  true,
			URL:      defaultMQTTURL,
			ClientID: defaultClientID,
			Topics: Topics{
				Progress: defaultProgressPrefix,
				States:   defaultStatesPrefix,
			},
		},
		HTTP: HTTP{
			Enabled:   true,
			Addr:      defaultHTTPAddr,
			StaticDir: defaultStaticDir,
		},
		Sequences: []Sequence{{
			Name:       defaultSequenceName,
			Cards:      defaultCards,
			OffsetMax:  reveal.DefaultOffsetMax,
			ScaleMin:   reveal.DefaultScaleMin,
			Easing:     "linear",
			Palette:    append([]string(nil), DefaultPalette...),
			Background: defaultBackground,
		}},
	}
}
