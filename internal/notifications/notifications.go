package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/ledclock/internal/env"
)

var client paho.Client
var topic string
var initialized bool

type payload struct {
	Device    string `json:"device"`
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
	Message   string `json:"message"`
}

// Init connects to the MQTT broker. Notifications stay disabled when no
// broker is configured or the first connection fails.
func Init() {
	if env.Cfg.MQTTBroker == "" {
		log.Warn().Msg("MQTT broker not configured - notifications disabled")
		return
	}

	opts := paho.NewClientOptions().
		AddBroker(env.Cfg.MQTTBroker).
		SetClientID(env.Cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	c := paho.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Warn().Str("broker", env.Cfg.MQTTBroker).Msg("MQTT connection timeout - notifications disabled")
		return
	}
	if err := token.Error(); err != nil {
		log.Warn().Err(err).Str("broker", env.Cfg.MQTTBroker).Msg("MQTT connect failed - notifications disabled")
		return
	}

	client = c
	topic = env.Cfg.MQTTTopic
	initialized = true

	log.Info().
		Str("broker", env.Cfg.MQTTBroker).
		Str("topic", topic).
		Msg("MQTT notifications initialized")
}

// FormatPayload builds the JSON body published for one notification.
func FormatPayload(device, title, message string, at time.Time) ([]byte, error) {
	return json.Marshal(payload{
		Device:    device,
		Timestamp: at.UTC().Format(time.RFC3339),
		Title:     title,
		Message:   message,
	})
}

// Send publishes a notification at QoS 0.
func Send(title, message string) error {
	if !initialized {
		return fmt.Errorf("notifications not initialized")
	}

	body, err := FormatPayload(env.Cfg.MQTTClientID, title, message, time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	token := client.Publish(topic, 0, false, body)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	log.Debug().
		Str("title", title).
		Str("topic", topic).
		Msg("Notification sent successfully")

	return nil
}

// Close disconnects from the broker.
func Close() {
	if initialized {
		client.Disconnect(1000)
		initialized = false
	}
}
