package controller

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/sundim/internal/brightness"
	"github.com/nerrad567/sundim/internal/device"
	"github.com/nerrad567/sundim/internal/state"
)

// fixedAltitude always reports the same solar altitude.
type fixedAltitude struct {
	altitude float64
	err      error
}

func (f fixedAltitude) Altitude(_ time.Time) (float64, error) {
	return f.altitude, f.err
}

// fakeBackend is a scripted device for cycle tests.
type fakeBackend struct {
	cfg      device.Config
	applied  []int
	applyErr error
	current  *int
	readErr  error
}

func (b *fakeBackend) Apply(_ context.Context, percent int) error {
	if b.applyErr != nil {
		return b.applyErr
	}
	b.applied = append(b.applied, percent)
	b.current = &percent
	return nil
}

func (b *fakeBackend) ReadCurrent(_ context.Context) (int, error) {
	if b.readErr != nil {
		return 0, b.readErr
	}
	if b.current == nil {
		return 0, device.ErrReadUnsupported
	}
	return *b.current, nil
}

func (b *fakeBackend) Config() device.Config { return b.cfg }

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}
func (l *recordingLogger) Error(string, ...any) {}

func (l *recordingLogger) count(list []string, msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range list {
		if m == msg {
			n++
		}
	}
	return n
}

func testConfig() Config {
	return Config{
		Range:      brightness.Range{Min: 1, Max: 100},
		Thresholds: brightness.Thresholds{SunDown: -6, SunHigh: 30},
		Tolerance:  2,
		Interval:   time.Hour,
	}
}

func newTestStore(t *testing.T) *state.Store {
	t.Helper()
	repo := state.NewFileRepository(filepath.Join(t.TempDir(), "state.json"))
	return state.Open(repo, nil)
}

func intPtr(v int) *int { return &v }

func TestRunOnceAppliesBaselinePlusOffset(t *testing.T) {
	store := newTestStore(t)
	if err := store.SetOffset(15); err != nil {
		t.Fatal(err)
	}

	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}}
	// Altitude 12 degrees: halfway up the ramp gives baseline 51.
	c := New(testConfig(), fixedAltitude{altitude: 12}, []device.Backend{backend}, store)

	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if len(backend.applied) != 1 || backend.applied[0] != 66 {
		t.Errorf("applied = %v, want [66]", backend.applied)
	}
	if got, ok := store.LastApplied("laptop"); !ok || got != 66 {
		t.Errorf("LastApplied() = (%d, %v), want (66, true)", got, ok)
	}
}

func TestRunOnceAltitudeFailureAbortsCycle(t *testing.T) {
	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}}
	c := New(testConfig(), fixedAltitude{err: errors.New("bad coordinates")}, []device.Backend{backend}, newTestStore(t))

	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err == nil {
		t.Fatal("RunOnce() succeeded, want error")
	}
	if len(backend.applied) != 0 {
		t.Errorf("applied = %v, want no applies after altitude failure", backend.applied)
	}
}

func TestRunOnceFailingDeviceDoesNotStopOthers(t *testing.T) {
	store := newTestStore(t)
	laptop := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}}
	monitor := &fakeBackend{
		cfg:      device.Config{Kind: device.KindMonitor, ID: intPtr(1)},
		applyErr: fmt.Errorf("%w: ddcutil", device.ErrToolMissing),
		readErr:  fmt.Errorf("%w: ddcutil", device.ErrToolMissing),
	}

	c := New(testConfig(), fixedAltitude{altitude: 40}, []device.Backend{monitor, laptop}, store)

	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if len(laptop.applied) != 1 || laptop.applied[0] != 100 {
		t.Errorf("laptop applied = %v, want [100]", laptop.applied)
	}
	if got, ok := store.LastApplied("laptop"); !ok || got != 100 {
		t.Errorf("laptop LastApplied() = (%d, %v), want (100, true)", got, ok)
	}
	if _, ok := store.LastApplied("monitor-1"); ok {
		t.Error("monitor-1 recorded an apply despite failing")
	}
}

func TestRunOnceSkipsWhenAlreadyAtTarget(t *testing.T) {
	store := newTestStore(t)
	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}}
	c := New(testConfig(), fixedAltitude{altitude: 40}, []device.Backend{backend}, store)

	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}
	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}

	if len(backend.applied) != 1 {
		t.Errorf("applied %d times, want 1 (second cycle is a no-op)", len(backend.applied))
	}
}

func TestRunOnceManualChangeWarnsOncePerEpisode(t *testing.T) {
	store := newTestStore(t)
	logger := &recordingLogger{}
	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}}
	c := New(testConfig(), fixedAltitude{altitude: 40}, []device.Backend{backend}, store,
		WithLogger(logger))

	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}

	// The user turns the panel down by hand and keeps doing so for a
	// few cycles: one episode, one warning.
	for i := 0; i < 3; i++ {
		backend.current = intPtr(30)
		if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
			t.Fatal(err)
		}
	}
	if got := logger.count(logger.warns, "manual brightness change detected"); got != 1 {
		t.Errorf("manual change warned %d times, want 1", got)
	}

	// A clean cycle ends the episode (the last apply set the panel back
	// to the target), so fresh drift warns again.
	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}
	backend.current = intPtr(30)
	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}
	if got := logger.count(logger.warns, "manual brightness change detected"); got != 2 {
		t.Errorf("manual change warned %d times after new episode, want 2", got)
	}
}

func TestRunOnceIdempotentInfoLogging(t *testing.T) {
	store := newTestStore(t)
	logger := &recordingLogger{}
	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}, readErr: device.ErrReadUnsupported}
	c := New(testConfig(), fixedAltitude{altitude: 40}, []device.Backend{backend}, store,
		WithLogger(logger))

	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}
	if got := logger.count(logger.infos, "brightness applied"); got != 1 {
		t.Errorf("info logged %d times after first cycle, want 1", got)
	}

	// Same target next cycle: no apply, no new info line.
	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}
	if got := logger.count(logger.infos, "brightness applied"); got != 1 {
		t.Errorf("info logged %d times after steady-state cycle, want 1", got)
	}
}

func TestWakeTriggersImmediateCycle(t *testing.T) {
	store := newTestStore(t)
	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}, readErr: device.ErrReadUnsupported}

	cfg := testConfig()
	cfg.Interval = time.Hour // the ticker must not fire during the test
	c := New(cfg, fixedAltitude{altitude: 40}, []device.Backend{backend}, store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	// Wait for the startup cycle.
	waitFor(t, func() bool { _, ok := store.LastApplied("laptop"); return ok })

	// Change the offset and wake; the new target must land without
	// waiting for the ticker.
	if err := store.SetOffset(-20); err != nil {
		t.Fatal(err)
	}
	c.Wake()

	waitFor(t, func() bool {
		v, _ := store.LastApplied("laptop")
		return v == 80
	})

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestWakeNeverBlocks(t *testing.T) {
	c := New(testConfig(), fixedAltitude{altitude: 0}, nil, newTestStore(t))
	// No loop is draining the channel; repeated wakes must still return.
	for i := 0; i < 10; i++ {
		c.Wake()
	}
}

// recordingHistory captures history writes.
type recordingHistory struct {
	mu      sync.Mutex
	entries []string
}

func (h *recordingHistory) RecordApply(_ context.Context, deviceKey string, brightness int, _ float64, source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, fmt.Sprintf("%s=%d/%s", deviceKey, brightness, source))
	return nil
}

func TestRunOnceRecordsHistory(t *testing.T) {
	store := newTestStore(t)
	history := &recordingHistory{}
	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}, readErr: device.ErrReadUnsupported}
	c := New(testConfig(), fixedAltitude{altitude: -10}, []device.Backend{backend}, store,
		WithHistory(history))

	if err := c.RunOnce(context.Background(), state.HistorySourceStartup); err != nil {
		t.Fatal(err)
	}

	if len(history.entries) != 1 || history.entries[0] != "laptop=1/startup" {
		t.Errorf("history = %v, want [laptop=1/startup]", history.entries)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

// sinkingAltitude models a sun falling linearly from a start altitude.
type sinkingAltitude struct {
	origin  time.Time
	start   float64
	perHour float64
}

func (s sinkingAltitude) Altitude(t time.Time) (float64, error) {
	return s.start - s.perHour*t.Sub(s.origin).Hours(), nil
}

func TestRunOnceAnnouncesApproachOnce(t *testing.T) {
	origin := time.Date(2025, 10, 1, 17, 0, 0, 0, time.UTC)
	// Falling through -6 degrees roughly 7.5 minutes after origin.
	sun := sinkingAltitude{origin: origin, start: -4, perHour: 16}

	cfg := testConfig()
	cfg.Interval = 5 * time.Minute
	cfg.PreChangeWindow = 15 * time.Minute

	now := origin
	logger := &recordingLogger{}
	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}}
	c := New(cfg, sun, []device.Backend{backend}, newTestStore(t),
		WithLogger(logger),
		WithClock(func() time.Time { return now }))

	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}
	if got := logger.count(logger.infos, "brightness change ahead"); got != 1 {
		t.Fatalf("announcements after first cycle = %d, want 1", got)
	}

	// The next cycle lands a little late, shifting the sample grid so
	// the predicted time differs by a few milliseconds. Still the same
	// approach.
	now = origin.Add(5*time.Minute + 7*time.Millisecond)
	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}
	if got := logger.count(logger.infos, "brightness change ahead"); got != 1 {
		t.Errorf("announcements after second cycle = %d, want still 1", got)
	}
}

// errAfterAltitude fails for any lookup beyond its cutoff time.
type errAfterAltitude struct {
	cutoff   time.Time
	altitude float64
}

func (e errAfterAltitude) Altitude(t time.Time) (float64, error) {
	if t.After(e.cutoff) {
		return 0, errors.New("ephemeris lookup failed")
	}
	return e.altitude, nil
}

func TestRunOnceSkipsAnnouncementOnAltitudeError(t *testing.T) {
	origin := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	// The present reading is well above both thresholds; the failing
	// future lookups must not be mistaken for a descent through 30.
	sun := errAfterAltitude{cutoff: origin, altitude: 55}

	cfg := testConfig()
	cfg.PreChangeWindow = 15 * time.Minute

	logger := &recordingLogger{}
	backend := &fakeBackend{cfg: device.Config{Kind: device.KindLaptop}}
	c := New(cfg, sun, []device.Backend{backend}, newTestStore(t),
		WithLogger(logger),
		WithClock(func() time.Time { return origin }))

	if err := c.RunOnce(context.Background(), state.HistorySourceSchedule); err != nil {
		t.Fatal(err)
	}
	if got := logger.count(logger.infos, "brightness change ahead"); got != 0 {
		t.Errorf("announcements = %d, want none when prediction fails", got)
	}
}
