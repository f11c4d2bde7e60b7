// Package influxdb records brightness telemetry in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes, and health monitoring. The
// integration is optional; when disabled the daemon runs without it.
//
// # Purpose
//
// Time-series history of what the daemon did and why:
//   - applied brightness per device, with the baseline and offset behind it
//   - solar altitude per cycle
//   - per-cycle timing and outcome counters
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteBrightness("laptop", 65, 50, 15)
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are delivered via the
// SetOnError callback. Connection and health check errors are returned
// directly. Telemetry is best-effort and never blocks a brightness apply.
package influxdb
