package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nerrad567/sundim/internal/brightness"
	"github.com/nerrad567/sundim/internal/controller"
	"github.com/nerrad567/sundim/internal/infrastructure/config"
	"github.com/nerrad567/sundim/internal/infrastructure/logging"
	"github.com/nerrad567/sundim/internal/solar"
	"github.com/nerrad567/sundim/internal/state"
)

// runOffset persists a new manual offset, applies it to the devices
// once, and exits.
//
// A running daemon shares the state file and re-reads the offset at the
// start of every cycle, so the change sticks there too; applying here as
// well makes the adjustment take effect immediately instead of waiting
// out the daemon's interval.
func runOffset(ctx context.Context, configPath string, offset int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.Logging, version)

	store := state.Open(state.NewFileRepository(cfg.State.Path), log)
	previous := store.Offset()
	if err := store.SetOffset(offset); err != nil {
		return fmt.Errorf("setting offset: %w", err)
	}

	loc, err := resolveLocation(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("resolving location: %w", err)
	}
	position, err := solar.New(loc.Latitude, loc.Longitude)
	if err != nil {
		return fmt.Errorf("initialising solar position: %w", err)
	}

	backends, err := buildBackends(cfg)
	if err != nil {
		return err
	}

	ctrl := controller.New(controllerConfig(cfg), position, backends, store,
		controller.WithLogger(log))
	if err := ctrl.RunOnce(ctx, state.HistorySourceOffset); err != nil {
		return fmt.Errorf("applying offset: %w", err)
	}

	fmt.Printf("offset changed: %+d%% -> %+d%%\n", previous, offset)
	return nil
}

// runStatus prints the daemon's current view of the world and exits.
func runStatus(_ context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := state.Open(state.NewFileRepository(cfg.State.Path), nil)
	snapshot := store.Snapshot()

	fmt.Printf("config:  %s\n", configPath)
	fmt.Printf("state:   %s\n", cfg.State.Path)
	fmt.Printf("offset:  %+d%%\n", snapshot.Offset)

	// Current solar situation, from manual coordinates only: a status
	// query should not wait on GeoClue or the network.
	position, err := solar.New(cfg.Location.ManualLatitude, cfg.Location.ManualLongitude)
	if err == nil {
		if altitude, altErr := position.Altitude(time.Now()); altErr == nil {
			rng := brightness.Range{Min: cfg.Brightness.MinBrightness, Max: cfg.Brightness.MaxBrightness}
			thr := brightness.Thresholds{SunDown: cfg.Brightness.SunDownAlt, SunHigh: cfg.Brightness.SunHighAlt}
			baseline := brightness.Baseline(altitude, rng, thr)
			target := brightness.Clamp(baseline+snapshot.Offset, rng)

			fmt.Printf("sun:     %.1f° above horizon\n", altitude)
			fmt.Printf("target:  %d%% (baseline %d%% %+d%%)\n", target, baseline, snapshot.Offset)
		}
	}

	if len(snapshot.LastBrightness) == 0 {
		fmt.Println("devices: none recorded yet")
		return nil
	}

	keys := make([]string, 0, len(snapshot.LastBrightness))
	for k := range snapshot.LastBrightness {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println("devices:")
	for _, k := range keys {
		fmt.Printf("  %-12s %d%%\n", k, snapshot.LastBrightness[k])
	}

	return nil
}
