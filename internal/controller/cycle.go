package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/sundim/internal/brightness"
	"github.com/nerrad567/sundim/internal/device"
	"github.com/nerrad567/sundim/internal/solar"
)

// RunOnce executes a single update cycle.
//
// The cycle aborts only when the solar altitude cannot be computed;
// everything downstream is per-device and a failing device never stops
// the others. The source tag ends up in the apply history.
func (c *Controller) RunOnce(ctx context.Context, source string) error {
	started := c.now()

	// Pick up an offset written by a concurrent one-shot invocation.
	c.store.Refresh()

	altitude, err := c.altitude.Altitude(started)
	if err != nil {
		return fmt.Errorf("computing solar altitude: %w", err)
	}

	baseline := brightness.Baseline(altitude, c.cfg.Range, c.cfg.Thresholds)
	offset := c.store.Offset()

	applied, failed := 0, 0
	for _, backend := range c.backends {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch c.applyDevice(ctx, backend, baseline, offset, altitude, source) {
		case outcomeApplied:
			applied++
		case outcomeFailed:
			failed++
		}
	}

	c.announceUpcomingChange(baseline, offset)
	c.publishOffset(offset)

	if c.metrics != nil {
		c.metrics.WriteSolarAltitude(altitude)
		c.metrics.WriteCycleStats(c.now().Sub(started), applied, failed)
	}

	c.logger.Debug("cycle complete",
		"altitude", fmt.Sprintf("%.2f", altitude),
		"baseline", baseline,
		"offset", offset,
		"applied", applied,
		"failed", failed,
		"source", source)

	return nil
}

// applyOutcome reports what applyDevice did with a device.
type applyOutcome int

const (
	outcomeUnchanged applyOutcome = iota
	outcomeApplied
	outcomeFailed
)

// applyDevice reconciles and, when needed, applies brightness for one
// device.
func (c *Controller) applyDevice(ctx context.Context, backend device.Backend, baseline, offset int, altitude float64, source string) applyOutcome {
	key := backend.Config().Key()
	label := backend.Config().Label()

	observed := c.readCurrent(ctx, backend, key)

	var lastApplied *int
	if v, ok := c.store.LastApplied(key); ok {
		lastApplied = &v
	}

	decision := brightness.Reconcile(baseline, offset, observed, lastApplied, c.cfg.Tolerance, c.cfg.Range)
	c.reportDrift(key, label, decision)

	// Nothing to do when the device already carries the target.
	if lastApplied != nil && *lastApplied == decision.Target && !decision.ManualChange {
		delete(c.lastFailure, key)
		return outcomeUnchanged
	}

	if err := device.ApplyWithRetry(ctx, backend, decision.Target); err != nil {
		c.reportFailure(key, label, err)
		return outcomeFailed
	}
	delete(c.lastFailure, key)

	c.store.RecordApplied(key, decision.Target)
	c.recordHistory(ctx, key, decision.Target, altitude, source)
	c.publishBrightness(key, decision.Target, baseline, offset, altitude)

	if last, ok := c.lastLogged[key]; !ok || last != decision.Target {
		c.logger.Info("brightness applied",
			"device", label,
			"brightness", decision.Target,
			"baseline", baseline,
			"offset", offset)
		c.lastLogged[key] = decision.Target
	} else {
		c.logger.Debug("brightness reapplied",
			"device", label,
			"brightness", decision.Target)
	}
	return outcomeApplied
}

// readCurrent attempts a readback, returning nil when the device cannot
// or will not report its brightness.
func (c *Controller) readCurrent(ctx context.Context, backend device.Backend, key string) *int {
	v, err := backend.ReadCurrent(ctx)
	if err != nil {
		if errors.Is(err, device.ErrReadUnsupported) {
			c.logger.Debug("brightness readback unsupported", "device", key)
		} else {
			c.logger.Debug("brightness readback failed", "device", key, "error", err)
		}
		return nil
	}
	return &v
}

// reportDrift warns once per manual-change episode and clears the
// episode once the drift is gone.
func (c *Controller) reportDrift(key, label string, decision brightness.Decision) {
	if decision.ManualChange {
		if !c.driftActive[key] {
			c.logger.Warn("manual brightness change detected",
				"device", label,
				"drift", decision.Drift,
				"hint", "use --offset to make adjustments stick")
			c.driftActive[key] = true
		}
		return
	}
	delete(c.driftActive, key)
}

// reportFailure logs an apply failure, demoting repeats of the same
// failure to debug so a detached monitor does not flood the log.
func (c *Controller) reportFailure(key, label string, err error) {
	msg := err.Error()
	if c.lastFailure[key] == msg {
		c.logger.Debug("brightness apply still failing", "device", label, "error", err)
		return
	}
	c.lastFailure[key] = msg

	switch {
	case errors.Is(err, device.ErrToolMissing):
		c.logger.Error("control tool missing", "device", label, "error", err)
	case errors.Is(err, device.ErrPermission):
		c.logger.Error("control tool denied", "device", label, "error", err)
	default:
		c.logger.Warn("brightness apply failed", "device", label, "error", err)
	}
}

// announceUpcomingChange logs ahead of a threshold crossing so the user
// is not surprised by a ramp starting or ending. Each approach to a
// crossing is announced once.
func (c *Controller) announceUpcomingChange(baseline, offset int) {
	if c.cfg.PreChangeWindow <= 0 {
		return
	}

	var altErr error
	f := solar.AltitudeFunc(func(t time.Time) float64 {
		alt, err := c.altitude.Altitude(t)
		if err != nil && altErr == nil {
			altErr = err
		}
		return alt
	})

	crossing, ok := solar.NextCrossing(f, c.now(), c.cfg.PreChangeWindow,
		c.cfg.Thresholds.SunDown, c.cfg.Thresholds.SunHigh)
	if altErr != nil {
		c.logger.Debug("skipping crossing prediction", "error", altErr)
		return
	}
	if !ok {
		return
	}
	if c.sameApproach(crossing) {
		return
	}
	c.lastAnnounced = crossing

	direction := "dimming"
	if crossing.Rising {
		direction = "brightening"
	}
	c.logger.Info("brightness change ahead",
		"at", crossing.Time.Format("15:04"),
		"direction", direction,
		"current", brightness.Clamp(baseline+offset, c.cfg.Range))
}

// sameApproach reports whether the predicted crossing matches the one
// last announced. The predicted time wanders a little between cycles
// because the sample grid is anchored at the current clock reading, so
// times within one update interval of each other count as the same
// approach.
func (c *Controller) sameApproach(crossing solar.Crossing) bool {
	last := c.lastAnnounced
	if last.Time.IsZero() {
		return false
	}
	if crossing.Threshold != last.Threshold || crossing.Rising != last.Rising {
		return false
	}

	diff := crossing.Time.Sub(last.Time)
	if diff < 0 {
		diff = -diff
	}
	return diff <= c.cfg.Interval
}

// recordHistory writes an apply-history row, best-effort.
func (c *Controller) recordHistory(ctx context.Context, key string, target int, altitude float64, source string) {
	if c.history == nil {
		return
	}
	if err := c.history.RecordApply(ctx, key, target, altitude, source); err != nil {
		c.logger.Warn("failed to record apply history", "device", key, "error", err)
	}
}

// publishBrightness publishes applied state, best-effort.
func (c *Controller) publishBrightness(key string, target, baseline, offset int, altitude float64) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.PublishBrightness(key, target, baseline, offset, altitude); err != nil {
		c.logger.Debug("failed to publish device state", "device", key, "error", err)
	}
}

// publishOffset publishes the offset when it changes, best-effort.
func (c *Controller) publishOffset(offset int) {
	if c.publisher == nil {
		return
	}
	if c.lastPublishedOffset != nil && *c.lastPublishedOffset == offset {
		return
	}
	if err := c.publisher.PublishOffset(offset); err != nil {
		c.logger.Debug("failed to publish offset", "error", err)
		return
	}
	c.lastPublishedOffset = &offset
}
