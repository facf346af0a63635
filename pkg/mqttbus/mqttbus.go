// Package mqttbus — guild event'lerini bir MQTT broker'a aktaran relay.
//
// WebSocket hub sadece bu process'e bağlı client'lara ulaşır. Birden fazla
// instance çalıştığında (veya audit/bot gibi harici tüketiciler olduğunda)
// event'ler ayrıca "<prefix>/guilds/<guild_id>/events" topic'ine publish edilir.
//
// Relay opsiyoneldir: config'de MQTT kapalıysa hiç oluşturulmaz.
package mqttbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/akinalp/mqvi-bans/pkg/logger"
)

// Options, broker bağlantı ayarları.
type Options struct {
	Broker   string // ör: tcp://localhost:1883
	ClientID string
	Username string
	Password string
	QoS      byte

	// PublishTimeout, broker onayı için beklenecek en uzun süre.
	// 0 ise DefaultPublishTimeout kullanılır.
	PublishTimeout time.Duration
}

// DefaultPublishTimeout, Options.PublishTimeout verilmediğinde kullanılır.
const DefaultPublishTimeout = 5 * time.Second

// ErrPublishTimeout, broker onayı süre içinde gelmediğinde döner.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Relay, JSON payload'ları MQTT topic'lerine publish eder.
type Relay struct {
	client  mqtt.Client
	qos     byte
	timeout time.Duration
}

var log = logger.For("mqtt")

// Connect, broker'a bağlanır. Client ID'ye uuid eklenir; aynı ID ile iki
// instance bağlanırsa broker eskisini düşürür.
func Connect(opts Options) (*Relay, error) {
	clientID := fmt.Sprintf("%s_%s", opts.ClientID, uuid.NewString())

	co := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(clientID).
		SetUsername(opts.Username).
		SetPassword(opts.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.WithField("client_id", clientID).Info("connected to broker")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("broker connection lost")
		})

	client := mqtt.NewClient(co)
	token := client.Connect()
	if token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return NewRelay(client, opts.QoS, opts.PublishTimeout), nil
}

// NewRelay, hazır bir mqtt.Client'ı sarar. timeout <= 0 ise DefaultPublishTimeout.
func NewRelay(client mqtt.Client, qos byte, timeout time.Duration) *Relay {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Relay{client: client, qos: qos, timeout: timeout}
}

// Publish, payload'ı JSON olarak topic'e gönderir ve broker onayını bekler.
// Bekleme ctx iptal edildiğinde veya publish timeout dolduğunda biter.
// Broker kopukken auto-reconnect token'ı süresiz bekletebilir.
func (r *Relay) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal mqtt payload: %w", err)
	}

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	token := r.client.Publish(topic, r.qos, false, data)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt publish to %s: %w", topic, err)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("mqtt publish to %s: %w after %s", topic, ErrPublishTimeout, r.timeout)
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish to %s: %w", topic, ctx.Err())
	}
}

// Close, bağlantıyı kapatır (bekleyen mesajlar için 250ms tanır).
func (r *Relay) Close() {
	if r.client != nil && r.client.IsConnected() {
		r.client.Disconnect(250)
		log.Info("mqtt connection closed")
	}
}
