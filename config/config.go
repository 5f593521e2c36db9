// Package config holds the drawer settings read from a yaml file.
package config

import (
	"fmt"
	"os"

	"github.com/labstack/gommon/log"
	"gopkg.in/yaml.v2"

	"github.com/fukurin00/map_drawer/drawer"
	"github.com/fukurin00/map_drawer/export"
)

type MQTT struct {
	Broker string `yaml:"broker"`
	Topic  string `yaml:"topic"`
}

type Config struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Thickness       float64 `yaml:"thickness"`
	BorderThickness float64 `yaml:"border_thickness"`
	Borders         bool    `yaml:"borders"`
	Resolution      float64 `yaml:"resolution"` // [m/px]
	LogLevel        string  `yaml:"log_level"`
	RobotRadius     float64 `yaml:"robot_radius"` // [m]
	MQTT            MQTT    `yaml:"mqtt"`
}

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

func Default() Config {
	return Config{
		Width:           drawer.DefaultWidth,
		Height:          drawer.DefaultHeight,
		Thickness:       drawer.DefaultThickness,
		BorderThickness: drawer.DefaultBorderThickness,
		Borders:         true,
		Resolution:      export.ResolutionStandard,
		LogLevel:        "info",
		RobotRadius:     0.25,
		MQTT:            MQTT{Topic: export.DefaultTopic},
	}
}

// Load reads path over the defaults, so missing keys keep their default.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Thickness <= 0 {
		return fmt.Errorf("thickness must be positive")
	}
	if c.Borders && c.BorderThickness <= 0 {
		return fmt.Errorf("border thickness must be positive")
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive")
	}
	if c.RobotRadius < 0 {
		return fmt.Errorf("robot radius must not be negative")
	}
	if _, ok := levels[c.LogLevel]; !ok {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

func (c Config) Level() log.Lvl {
	if l, ok := levels[c.LogLevel]; ok {
		return l
	}
	return log.INFO
}

func (c Config) CanvasOptions() drawer.Options {
	return drawer.Options{
		Width:           c.Width,
		Height:          c.Height,
		Thickness:       c.Thickness,
		BorderThickness: c.BorderThickness,
		Borders:         c.Borders,
	}
}
