// Package mqtt publishes daemon state to an MQTT broker.
//
// The integration is optional and publish-only: when enabled, the daemon
// announces its online/offline status (with a Last Will for crash
// detection) and publishes the brightness it applies per device plus the
// current manual offset, all as retained messages so dashboards and
// automations see current state immediately on subscribe.
//
// Topic layout:
//
//	sundim/system/status        daemon status (online/offline + reason)
//	sundim/state/<device-key>   last applied brightness per device
//	sundim/state/offset         current manual offset
//
// The client wraps paho.mqtt.golang and relies on its automatic
// reconnection; publish failures while disconnected are reported as
// ErrNotConnected and treated as best-effort by the caller.
package mqtt
