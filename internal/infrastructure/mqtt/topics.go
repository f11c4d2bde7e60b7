package mqtt

import "fmt"

// Topic namespace for everything the daemon publishes.
const topicPrefix = "sundim"

// Topics builds the topic strings used on the broker.
//
// Layout:
//
//	sundim/system/status          retained daemon online/offline status
//	sundim/state/<device-key>     retained last applied brightness per device
//	sundim/state/offset           retained current manual offset
type Topics struct{}

// SystemStatus returns the daemon status topic.
func (Topics) SystemStatus() string {
	return topicPrefix + "/system/status"
}

// DeviceState returns the state topic for a device key.
func (Topics) DeviceState(deviceKey string) string {
	return fmt.Sprintf("%s/state/%s", topicPrefix, deviceKey)
}

// Offset returns the manual offset topic.
func (Topics) Offset() string {
	return topicPrefix + "/state/offset"
}
