// Package controller drives the brightness update loop.
//
// Each cycle computes the solar altitude, maps it onto the brightness
// curve, adds the persisted manual offset, then reconciles and applies
// the result to every configured device in turn. Device failures are
// isolated: one broken monitor never stops the laptop panel from
// updating.
//
// The loop runs on a fixed interval, plus immediately on startup and
// whenever Wake is called (typically after the offset changed). A Wake
// does not reset the schedule.
//
// Apply history, MQTT state publishing, and InfluxDB telemetry attach
// through optional narrow interfaces and are best-effort.
package controller
