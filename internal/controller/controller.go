package controller

import (
	"context"
	"time"

	"github.com/nerrad567/sundim/internal/brightness"
	"github.com/nerrad567/sundim/internal/device"
	"github.com/nerrad567/sundim/internal/solar"
	"github.com/nerrad567/sundim/internal/state"
)

// Logger is the minimal logging interface used by the controller.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// AltitudeSource computes the solar altitude in degrees at a given time.
type AltitudeSource interface {
	Altitude(t time.Time) (float64, error)
}

// HistoryRecorder persists an apply-history entry. Optional.
type HistoryRecorder interface {
	RecordApply(ctx context.Context, deviceKey string, brightness int, altitude float64, source string) error
}

// StatePublisher announces applied state to external consumers. Optional.
type StatePublisher interface {
	PublishBrightness(deviceKey string, brightness, baseline, offset int, altitude float64) error
	PublishOffset(offset int) error
}

// MetricWriter records telemetry points. Optional, best-effort.
type MetricWriter interface {
	WriteBrightness(deviceKey string, brightness, baseline, offset int)
	WriteSolarAltitude(altitude float64)
	WriteCycleStats(duration time.Duration, applied, failed int)
}

// Config carries the tuning the controller needs per cycle.
type Config struct {
	// Range bounds the brightness the controller will ever apply.
	Range brightness.Range

	// Thresholds are the solar altitudes between which the baseline ramps.
	Thresholds brightness.Thresholds

	// Tolerance separates readback noise from deliberate manual changes.
	Tolerance int

	// Interval is the cycle period.
	Interval time.Duration

	// PreChangeWindow is how far ahead to look for a threshold crossing
	// worth announcing. Zero disables announcements.
	PreChangeWindow time.Duration
}

// Controller drives the update loop: compute altitude, reconcile each
// device against the baseline plus offset, and apply what changed.
//
// The optional collaborators (history, publisher, metrics) are
// best-effort; their failures are logged and never block an apply.
type Controller struct {
	cfg      Config
	altitude AltitudeSource
	backends []device.Backend
	store    *state.Store

	history   HistoryRecorder
	publisher StatePublisher
	metrics   MetricWriter

	logger Logger
	now    func() time.Time

	// wake triggers an immediate cycle without resetting the schedule.
	wake chan struct{}

	// lastLogged tracks the last brightness logged at info level per
	// device, so steady-state cycles stay quiet.
	lastLogged map[string]int

	// driftActive tracks devices with an unresolved manual change, so
	// the warning fires once per episode instead of every cycle.
	driftActive map[string]bool

	// lastFailure tracks the last failure message per device, demoting
	// repeats to debug level.
	lastFailure map[string]string

	// lastAnnounced is the crossing most recently announced, to avoid
	// repeating the same announcement on consecutive cycles. The zero
	// value means nothing has been announced yet.
	lastAnnounced solar.Crossing

	// lastPublishedOffset dedupes offset publishes.
	lastPublishedOffset *int
}

// Option customises a Controller.
type Option func(*Controller)

// WithHistory attaches an apply-history recorder.
func WithHistory(h HistoryRecorder) Option {
	return func(c *Controller) { c.history = h }
}

// WithPublisher attaches a state publisher.
func WithPublisher(p StatePublisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithMetrics attaches a telemetry writer.
func WithMetrics(m MetricWriter) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithLogger attaches a logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a controller over the given devices.
func New(cfg Config, altitude AltitudeSource, backends []device.Backend, store *state.Store, opts ...Option) *Controller {
	c := &Controller{
		cfg:         cfg,
		altitude:    altitude,
		backends:    backends,
		store:       store,
		logger:      noopLogger{},
		now:         time.Now,
		wake:        make(chan struct{}, 1),
		lastLogged:  make(map[string]int),
		driftActive: make(map[string]bool),
		lastFailure: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wake requests an immediate cycle, typically after the offset changed.
// It never blocks; a cycle already pending absorbs the request. The
// regular schedule is not reset.
func (c *Controller) Wake() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Run executes cycles until the context is cancelled.
//
// A cycle runs immediately on entry, then on every tick of the
// configured interval, plus whenever Wake is called. Cycle errors are
// logged and the loop continues; only context cancellation stops it.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.RunOnce(ctx, state.HistorySourceStartup); err != nil {
		c.logger.Error("startup cycle failed", "error", err)
	}

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.RunOnce(ctx, state.HistorySourceSchedule); err != nil {
				c.logger.Error("cycle failed", "error", err)
			}
		case <-c.wake:
			if err := c.RunOnce(ctx, state.HistorySourceOffset); err != nil {
				c.logger.Error("cycle failed", "error", err)
			}
		}
	}
}
