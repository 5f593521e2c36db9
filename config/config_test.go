package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/tdewolff/test"
)

func write(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "drawer.yaml")
	test.Error(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	test.Error(t, c.Validate())
	test.T(t, c.Width, 400)
	test.T(t, c.Height, 400)
	test.Float(t, c.Thickness, 3)
	test.Float(t, c.BorderThickness, 5)
	test.That(t, c.Borders)
	test.Float(t, c.Resolution, 0.01)
	test.T(t, c.MQTT.Topic, "map/global_costmap")
	test.T(t, c.Level(), log.INFO)
}

func TestLoad(t *testing.T) {
	c, err := Load(write(t, "width: 640\nresolution: 0.005\nborders: false\nlog_level: debug\nmqtt:\n  broker: 10.0.0.2\n"))
	test.Error(t, err)
	test.T(t, c.Width, 640)
	test.T(t, c.Height, 400, "missing keys keep defaults")
	test.Float(t, c.Resolution, 0.005)
	test.That(t, !c.Borders)
	test.T(t, c.Level(), log.DEBUG)
	test.T(t, c.MQTT.Broker, "10.0.0.2")
	test.T(t, c.MQTT.Topic, "map/global_costmap")

	opts := c.CanvasOptions()
	test.T(t, opts.Width, 640)
	test.That(t, !opts.Borders)
}

func TestLoadInvalid(t *testing.T) {
	var tests = []string{
		"width: 0\n",
		"height: -3\n",
		"thickness: 0\n",
		"resolution: 0\n",
		"robot_radius: -1\n",
		"log_level: loud\n",
		"border_thickness: 0\n",
		"width: [\n",
	}
	for _, tt := range tests {
		t.Run(tt, func(t *testing.T) {
			_, err := Load(write(t, tt))
			test.That(t, err != nil, "accepted", tt)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	test.That(t, os.IsNotExist(err))
}
