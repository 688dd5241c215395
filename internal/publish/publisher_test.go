package publish

import (
	"errors"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/muurk/canemu/internal/can"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

type fakeClient struct {
	mu           sync.Mutex
	messages     []published
	err          error
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, published{topic, qos, retained, payload.(string)})
	return &fakeToken{err: c.err}
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	c.disconnected = true
	c.mu.Unlock()
}

func (c *fakeClient) snapshot() []published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]published(nil), c.messages...)
}

func TestDeviceTopic(t *testing.T) {
	tests := []struct {
		prefix string
		id     uint8
		want   string
	}{
		{"canemu", 3, "canemu/device/3"},
		{"robot/sim/", 63, "robot/sim/device/63"},
		{"", 0, "canemu/device/0"},
	}
	for _, tt := range tests {
		if got := DeviceTopic(tt.prefix, tt.id); got != tt.want {
			t.Errorf("DeviceTopic(%q, %d) = %q, want %q", tt.prefix, tt.id, got, tt.want)
		}
	}
}

func TestPublish(t *testing.T) {
	fc := &fakeClient{}
	p := newPublisher(fc, "sim", 1)
	defer p.Close()

	dev := can.Device{Type: can.TalonSRX, ID: 5, Speed: 16}
	if err := p.Publish(dev); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	msgs := fc.snapshot()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	got := msgs[0]
	if got.topic != "sim/device/5" || got.qos != 1 || !got.retained {
		t.Errorf("message = %+v", got)
	}
	if got.payload != dev.Serialize() {
		t.Errorf("payload = %q, want %q", got.payload, dev.Serialize())
	}
}

func TestPublishError(t *testing.T) {
	fc := &fakeClient{err: errors.New("broker gone")}
	p := newPublisher(fc, "sim", 0)
	defer p.Close()

	err := p.Publish(can.Device{Type: can.VictorSPX, ID: 1})
	if !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed", err)
	}
}

func TestDeviceUpdatedDrainsOnClose(t *testing.T) {
	fc := &fakeClient{}
	p := newPublisher(fc, "sim", 0)

	for id := uint8(0); id < 10; id++ {
		p.DeviceUpdated(can.Device{Type: can.TalonSRX, ID: id})
	}
	p.Close()

	if got := len(fc.snapshot()); got != 10 {
		t.Errorf("published %d updates, want 10", got)
	}
	if !fc.disconnected {
		t.Error("Close() did not disconnect the client")
	}

	// Updates after Close are ignored.
	p.DeviceUpdated(can.Device{Type: can.TalonSRX, ID: 11})
	p.Close()
	if got := len(fc.snapshot()); got != 10 {
		t.Errorf("published %d updates after Close, want 10", got)
	}
}

func TestConnectRejectsQoS(t *testing.T) {
	if _, err := Connect(configWithQoS(3)); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Connect() error = %v, want ErrInvalidQoS", err)
	}
}
