package config

import (
	"fmt"
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Output drivers.
const (
	DriverSim     = "sim"
	DriverConsole = "console"
	DriverSPI     = "spi"
)

var colorOrderRe = regexp.MustCompile(`^(RGB|RBG|GRB|GBR|BRG|BGR)$`)

// RGB is a static segment color, written as [r, g, b].
type RGB [3]uint8

type Segments struct {
	Foreground RGB `yaml:"foreground"`
	Background RGB `yaml:"background"`
	// BlankBackground forces background cells dark while the clock is active.
	BlankBackground bool `yaml:"blank_background"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0, "" for the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
}

type Config struct {
	Driver     string `yaml:"driver"` // "spi" | "console" | "sim"
	ColorOrder string `yaml:"color_order"`
	Timezone   string `yaml:"timezone"`
	Settings   string `yaml:"settings"` // path of the three-flag settings file
	Addr       string `yaml:"addr"`     // preview/control HTTP address, "" to disable
	FPS        int    `yaml:"fps"`      // update loop polls per second
	LogLevel   string `yaml:"log_level"`

	Segments Segments `yaml:"segments"`
	SPI      SPI      `yaml:"spi,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Driver:     DriverSim,
		ColorOrder: "GRB",
		Timezone:   "Local",
		Settings:   "settings.yaml",
		Addr:       ":8080",
		FPS:        10,
		LogLevel:   "info",
		Segments: Segments{
			Foreground: RGB{255, 160, 0},
			Background: RGB{16, 10, 0},
		},
		SPI: SPI{SpeedHz: 2400000},
	}
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSim, DriverConsole, DriverSPI)),
		validation.Field(&c.ColorOrder, validation.Required, validation.Match(colorOrderRe)),
		validation.Field(&c.Settings, validation.Required),
		validation.Field(&c.FPS, validation.Required, validation.Min(1), validation.Max(120)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return err
	}
	return c.SPI.Validate()
}

func (s *SPI) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.SpeedHz, validation.Min(0), validation.Max(10000000)),
	)
}

// Load reads path on top of Default, expanding $VARS, and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return c, nil
}
