package mqttbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken, anında tamamlanan bir mqtt.Token.
type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

// pendingToken, hiç tamamlanmayan bir token (broker kopuk, QoS 1).
type pendingToken struct{ done chan struct{} }

func (t *pendingToken) Wait() bool                     { <-t.done; return true }
func (t *pendingToken) WaitTimeout(time.Duration) bool { return false }
func (t *pendingToken) Done() <-chan struct{}          { return t.done }
func (t *pendingToken) Error() error                   { return nil }

type stalledClient struct{ mqtt.Client }

func (stalledClient) Publish(string, byte, bool, interface{}) mqtt.Token {
	return &pendingToken{done: make(chan struct{})}
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient, sadece Publish'i implement eder; diğer metodlar gömülü
// interface üzerinden çağrılırsa panic atar (test'te çağrılmamalı).
type fakeClient struct {
	mqtt.Client
	err  error
	sent []published
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.sent = append(c.sent, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return newFakeToken(c.err)
}

func TestRelayPublish(t *testing.T) {
	client := &fakeClient{}
	relay := NewRelay(client, 1, 0)

	payload := map[string]string{"op": "GUILD_BAN_ADD"}
	if err := relay.Publish(context.Background(), "mqvi/guilds/g1/events", payload); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(client.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(client.sent))
	}
	got := client.sent[0]
	if got.topic != "mqvi/guilds/g1/events" || got.qos != 1 {
		t.Errorf("topic/qos = %s/%d", got.topic, got.qos)
	}

	var decoded map[string]string
	if err := json.Unmarshal(got.payload, &decoded); err != nil {
		t.Fatalf("payload not json: %v", err)
	}
	if decoded["op"] != "GUILD_BAN_ADD" {
		t.Errorf("payload op = %q", decoded["op"])
	}
}

func TestRelayPublishError(t *testing.T) {
	brokerErr := errors.New("not connected")
	relay := NewRelay(&fakeClient{err: brokerErr}, 0, 0)

	err := relay.Publish(context.Background(), "t", 1)
	if !errors.Is(err, brokerErr) {
		t.Fatalf("Publish error = %v, want wrapping %v", err, brokerErr)
	}
}

func TestRelayPublishTimesOutWithoutAck(t *testing.T) {
	relay := NewRelay(stalledClient{}, 1, 50*time.Millisecond)

	errc := make(chan error, 1)
	go func() {
		errc <- relay.Publish(context.Background(), "mqvi/guilds/g1/events", 1)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, ErrPublishTimeout) {
			t.Fatalf("Publish error = %v, want %v", err, ErrPublishTimeout)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Publish did not return after its timeout")
	}
}

func TestRelayPublishHonoursContext(t *testing.T) {
	relay := NewRelay(stalledClient{}, 1, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := relay.Publish(ctx, "t", 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("Publish error = %v, want context.Canceled", err)
	}
}

func TestNewRelayDefaultTimeout(t *testing.T) {
	if got := NewRelay(stalledClient{}, 0, 0).timeout; got != DefaultPublishTimeout {
		t.Errorf("timeout = %s, want %s", got, DefaultPublishTimeout)
	}
}
