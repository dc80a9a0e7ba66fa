// Package config loads the programmer configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top level configuration file.
type Config struct {
	Serial Serial `yaml:"serial"`
	Pins   Pins   `yaml:"pins"`
	Log    Log    `yaml:"log"`
}

// Serial configures the console port.
type Serial struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// Pins names the GPIO lines, as known to periph's gpioreg.
type Pins struct {
	// Address maps address port bit numbers to pins. Bits 0 and 1 are
	// unused because addresses are shifted left by two.
	Address map[int]string `yaml:"address"`

	// Data lists data bus bits D0 to D7.
	Data [8]string `yaml:"data"`

	// Clock is the 6540 phase 2 clock.
	Clock string `yaml:"clock"`

	// OutputEnable, ChipEnable and Program are the 27C64 /G, /E and /PGM.
	OutputEnable string `yaml:"outputEnable"`
	ChipEnable   string `yaml:"chipEnable"`
	Program      string `yaml:"program"`

	// GreenLED and BlueLED are optional status indicators.
	GreenLED string `yaml:"greenLED"`
	BlueLED  string `yaml:"blueLED"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration for the reference wiring on a
// Raspberry Pi header: A0..A12 on GPIO2..GPIO14 (port bits 2..14), D0..D7
// on GPIO16..GPIO23.
func Default() *Config {
	address := make(map[int]string)
	for bit := 2; bit <= 14; bit++ {
		address[bit] = fmt.Sprintf("GPIO%d", bit)
	}

	return &Config{
		Serial: Serial{
			Port: "/dev/ttyAMA0",
			Baud: 115200,
		},
		Pins: Pins{
			Address: address,
			Data: [8]string{
				"GPIO16", "GPIO17", "GPIO18", "GPIO19",
				"GPIO20", "GPIO21", "GPIO22", "GPIO23",
			},
			Clock:        "GPIO24",
			OutputEnable: "GPIO24",
			ChipEnable:   "GPIO25",
			Program:      "GPIO26",
			GreenLED:     "GPIO27",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// An address map in the file replaces the default one instead of
	// merging into it.
	defaults := cfg.Pins.Address
	cfg.Pins.Address = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Pins.Address == nil {
		cfg.Pins.Address = defaults
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the pin map.
func (c *Config) Validate() error {
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Serial.Baud)
	}
	for bit := range c.Pins.Address {
		if bit < 0 || bit > 31 {
			return fmt.Errorf("address bit %d out of range 0-31", bit)
		}
	}
	for i, name := range c.Pins.Data {
		if name == "" {
			return fmt.Errorf("data bit D%d has no pin", i)
		}
	}
	if len(c.Pins.Address) == 0 {
		return errors.New("no address pins")
	}
	return nil
}
