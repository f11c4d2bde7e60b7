package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Maximum payload size for MQTT messages (1MB).
// This prevents resource exhaustion and aligns with typical broker limits.
const maxPayloadSize = 1 << 20 // 1MB

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - topic: The topic to publish to (e.g., "sundim/state/laptop")
//   - payload: The message payload (typically JSON, max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// QoS Levels:
//   - 0: At most once (fire and forget)
//   - 1: At least once (guaranteed delivery, may duplicate)
//   - 2: Exactly once (guaranteed, no duplicates, higher overhead)
//
// Retained Messages:
//   - When true, broker stores the last message for each topic
//   - New subscribers immediately receive the retained message
//   - Use for state topics (device brightness, system status)
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishRetained publishes a retained message with the configured default QoS.
//
// Use for state updates where new subscribers should receive the current state.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}

// DeviceStatePayload is the JSON document published per device after an apply.
type DeviceStatePayload struct {
	Brightness int       `json:"brightness"`
	Baseline   int       `json:"baseline"`
	Offset     int       `json:"offset"`
	Altitude   float64   `json:"altitude"`
	Timestamp  time.Time `json:"timestamp"`
}

// PublishDeviceState publishes the applied brightness for a device as a
// retained message on sundim/state/<device-key>.
func (c *Client) PublishDeviceState(deviceKey string, state DeviceStatePayload) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: encoding device state: %w", ErrPublishFailed, err)
	}
	return c.PublishRetained(Topics{}.DeviceState(deviceKey), payload)
}

// PublishOffset publishes the current manual offset as a retained message.
func (c *Client) PublishOffset(offset int) error {
	payload, err := json.Marshal(map[string]any{
		"offset":    offset,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("%w: encoding offset: %w", ErrPublishFailed, err)
	}
	return c.PublishRetained(Topics{}.Offset(), payload)
}
