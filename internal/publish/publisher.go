package publish

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/muurk/canemu/internal/can"
	"github.com/muurk/canemu/internal/config"
	"github.com/muurk/canemu/internal/logging"
)

var (
	// ErrConnectionFailed is returned when the initial connection attempt fails.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed is returned when a publish operation fails.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidQoS is returned when the configured QoS is above 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")
)

// client is the subset of pahomqtt.Client the publisher needs.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Publisher forwards device updates to an MQTT broker.
type Publisher struct {
	client client
	prefix string
	qos    byte

	queue     chan can.Device
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// DeviceTopic returns the state topic for the controller with id.
func DeviceTopic(prefix string, id uint8) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = config.DefaultTopicPrefix
	}
	return prefix + "/device/" + strconv.Itoa(int(id))
}

// Connect dials the broker and starts publishing.
func Connect(cfg config.MQTTConfig) (*Publisher, error) {
	if cfg.QoS > maxQoS {
		return nil, ErrInvalidQoS
	}

	opts := buildClientOptions(cfg)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		logging.Warn("MQTT connection lost", zap.Error(err))
	})
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		logging.Info("MQTT connected", zap.String("broker", cfg.Broker))
	})

	c := pahomqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return newPublisher(c, cfg.TopicPrefix, cfg.QoS), nil
}

func newPublisher(c client, prefix string, qos byte) *Publisher {
	p := &Publisher{
		client:  c,
		prefix:  prefix,
		qos:     qos,
		queue:   make(chan can.Device, queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.run()
	return p
}

// DeviceUpdated queues dev for publishing. It never blocks.
func (p *Publisher) DeviceUpdated(dev can.Device) {
	select {
	case <-p.done:
		return
	default:
	}

	select {
	case p.queue <- dev:
	default:
		logging.Warn("MQTT queue full, dropping device update",
			zap.Uint8("device_id", dev.ID),
		)
	}
}

// Publish sends dev synchronously.
func (p *Publisher) Publish(dev can.Device) error {
	topic := DeviceTopic(p.prefix, dev.ID)
	token := p.client.Publish(topic, p.qos, true, dev.Serialize())
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

func (p *Publisher) run() {
	defer close(p.stopped)
	for {
		select {
		case dev := <-p.queue:
			p.publishLogged(dev)
		case <-p.done:
			// Drain what was queued before Close.
			for {
				select {
				case dev := <-p.queue:
					p.publishLogged(dev)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) publishLogged(dev can.Device) {
	if err := p.Publish(dev); err != nil {
		logging.Warn("Failed to publish device state",
			zap.Uint8("device_id", dev.ID),
			zap.Error(err),
		)
		return
	}
	logging.Debug("Published device state",
		zap.String("topic", DeviceTopic(p.prefix, dev.ID)),
	)
}

// Close stops accepting updates and disconnects from the broker.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		<-p.stopped
		p.client.Disconnect(defaultDisconnectQuiesce)
	})
}
