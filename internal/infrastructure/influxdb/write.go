package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// writePoint batches a point for asynchronous delivery. Points are
// dropped silently while disconnected; telemetry is best-effort.
func (c *Client) writePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

// WriteBrightness records an applied brightness for a device, tagged by
// its stable key (e.g. "laptop", "monitor-1"), alongside the computed
// baseline and the manual offset in effect.
func (c *Client) WriteBrightness(deviceKey string, brightness, baseline, offset int) {
	c.writePoint("brightness",
		map[string]string{"device": deviceKey},
		map[string]interface{}{
			"applied":  brightness,
			"baseline": baseline,
			"offset":   offset,
		})
}

// WriteSolarAltitude records the solar altitude driving the current cycle.
func (c *Client) WriteSolarAltitude(altitude float64) {
	c.writePoint("solar", nil, map[string]interface{}{
		"altitude_deg": altitude,
	})
}

// WriteCycleStats records timing and outcome counters for one update cycle.
func (c *Client) WriteCycleStats(duration time.Duration, applied, failed int) {
	c.writePoint("cycle", nil, map[string]interface{}{
		"duration_ms": float64(duration.Milliseconds()),
		"applied":     applied,
		"failed":      failed,
	})
}
