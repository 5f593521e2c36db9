package export

import (
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/labstack/gommon/log"
)

const (
	DefaultTopic   = "map/global_costmap"
	publishTimeout = 10 * time.Second
)

// Publisher sends occupancy grids to an MQTT broker, on the topic the
// routing provider listens to for its global cost map.
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher connects to broker ("host" or "host:port"; port 1883 is
// assumed when missing).
func NewPublisher(broker, topic string) (*Publisher, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(broker))
	opts.SetClientID("map-drawer")
	opts.SetConnectTimeout(publishTimeout)

	clt := mqtt.NewClient(opts)
	if token := clt.Connect(); token.WaitTimeout(publishTimeout) && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connection error: %w", token.Error())
	} else if !clt.IsConnected() {
		return nil, fmt.Errorf("mqtt connection to %s timed out", broker)
	}
	log.Infof("connected to mqtt broker %s", broker)
	return &Publisher{client: clt, topic: topic}, nil
}

// Publish sends the grid as retained JSON so late subscribers get it too.
func (p *Publisher) Publish(g OccupancyGrid) error {
	payload, err := g.MarshalPayload()
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish error: %w", err)
	}
	log.Infof("published %dx%d grid to %s", g.Info.Width, g.Info.Height, p.topic)
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

// currently only tcp brokers.
func brokerURL(broker string) string {
	u := strings.TrimPrefix(broker, "tcp://")
	if !strings.Contains(u, ":") {
		u += ":1883"
	}
	return "tcp://" + u
}
