package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/sundim/internal/brightness"
	"github.com/nerrad567/sundim/internal/controller"
	"github.com/nerrad567/sundim/internal/device"
	"github.com/nerrad567/sundim/internal/infrastructure/config"
	"github.com/nerrad567/sundim/internal/infrastructure/database"
	"github.com/nerrad567/sundim/internal/infrastructure/influxdb"
	"github.com/nerrad567/sundim/internal/infrastructure/logging"
	"github.com/nerrad567/sundim/internal/infrastructure/mqtt"
	"github.com/nerrad567/sundim/internal/location"
	"github.com/nerrad567/sundim/internal/solar"
	"github.com/nerrad567/sundim/internal/state"
)

// runDaemon runs the update loop until the context is cancelled.
func runDaemon(ctx context.Context, configPath string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting sundim",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	var checks []healthCheck

	store := state.Open(state.NewFileRepository(cfg.State.Path), log)
	log.Info("state loaded",
		"path", cfg.State.Path,
		"offset", store.Offset(),
	)

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
	log.Info("devices configured", "count", len(backends))

	opts := []controller.Option{controller.WithLogger(log)}

	// Apply history (optional)
	if cfg.Database.Enabled {
		db, dbErr := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if dbErr != nil {
			return fmt.Errorf("opening database: %w", dbErr)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("apply history enabled", "path", cfg.Database.Path)

		opts = append(opts, controller.WithHistory(state.NewSQLiteHistoryRepository(db.DB)))
		checks = append(checks, healthCheck{name: "database", check: func(ctx context.Context) error {
			if err := db.HealthCheck(ctx); err != nil {
				return err
			}
			log.Debug("database healthy", "open_connections", db.Stats().OpenConnections)
			return nil
		}})
	}

	// MQTT state publishing (optional)
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		opts = append(opts, controller.WithPublisher(mqttPublisher{client: mqttClient}))
		checks = append(checks, healthCheck{name: "mqtt", check: mqttClient.HealthCheck})
	}

	// InfluxDB telemetry (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		opts = append(opts, controller.WithMetrics(influxClient))
		checks = append(checks, healthCheck{name: "influxdb", check: influxClient.HealthCheck})
	}

	if len(checks) > 0 {
		go monitorHealth(ctx, log, healthInterval, checks)
	}

	ctrl := controller.New(controllerConfig(cfg), position, backends, store, opts...)

	log.Info("initialisation complete, entering update loop",
		"location", loc.String(),
		"interval", cfg.UpdateInterval().String(),
	)

	err = ctrl.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("shutdown signal received, sundim stopped")
		return nil
	}
	return err
}

// Backing-service health checks run on their own schedule so broker or
// database trouble surfaces between update cycles.
const (
	healthInterval     = 5 * time.Minute
	healthCheckTimeout = 5 * time.Second
)

// healthCheck pairs a service name with its liveness check.
type healthCheck struct {
	name  string
	check func(context.Context) error
}

// monitorHealth runs the configured checks on a fixed interval until
// the context is cancelled. Failures are logged, never fatal; the
// services involved are all optional.
func monitorHealth(ctx context.Context, log *logging.Logger, interval time.Duration, checks []healthCheck) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, hc := range checks {
				checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
				if err := hc.check(checkCtx); err != nil {
					log.Warn("health check failed", "service", hc.name, "error", err)
				}
				cancel()
			}
		}
	}
}

// controllerConfig maps the loaded configuration onto controller tuning.
func controllerConfig(cfg *config.Config) controller.Config {
	return controller.Config{
		Range: brightness.Range{
			Min: cfg.Brightness.MinBrightness,
			Max: cfg.Brightness.MaxBrightness,
		},
		Thresholds: brightness.Thresholds{
			SunDown: cfg.Brightness.SunDownAlt,
			SunHigh: cfg.Brightness.SunHighAlt,
		},
		Tolerance:       cfg.Brightness.ManualChangeTolerance,
		Interval:        cfg.UpdateInterval(),
		PreChangeWindow: cfg.PreChangeWindow(),
	}
}

// buildBackends creates a device backend per configured display.
func buildBackends(cfg *config.Config) ([]device.Backend, error) {
	runner := device.ExecRunner{Timeout: cfg.CommandTimeout()}

	backends := make([]device.Backend, 0, len(cfg.Devices))
	for _, d := range cfg.Devices {
		backend, err := device.NewBackend(device.Config{
			Kind: device.Kind(d.Kind),
			ID:   d.ID,
			Name: d.Name,
		}, runner)
		if err != nil {
			return nil, fmt.Errorf("configuring device %q: %w", d.Kind, err)
		}
		backends = append(backends, backend)
	}
	return backends, nil
}

// resolveLocation builds the provider chain from config and resolves once.
//
// With auto-location enabled the order is GeoClue, then IP geolocation,
// then the manual coordinates as a last resort. Otherwise only the
// manual coordinates are used.
func resolveLocation(ctx context.Context, cfg *config.Config, log *logging.Logger) (location.Location, error) {
	manual := location.ManualProvider{
		Latitude:  cfg.Location.ManualLatitude,
		Longitude: cfg.Location.ManualLongitude,
	}

	var providers []location.Provider
	if cfg.Location.UseAutoLocation {
		providers = append(providers,
			location.GeoClueProvider{
				Binary:  cfg.Location.GeoclueBinary,
				Timeout: cfg.GeoclueTimeout(),
			},
			location.IPProvider{URL: cfg.Location.IPLookupURL},
		)
	}
	providers = append(providers, manual)

	return location.NewResolver(log, providers...).Resolve(ctx)
}

// mqttPublisher adapts the MQTT client to the controller's publisher interface.
type mqttPublisher struct {
	client *mqtt.Client
}

func (p mqttPublisher) PublishBrightness(deviceKey string, brightness, baseline, offset int, altitude float64) error {
	return p.client.PublishDeviceState(deviceKey, mqtt.DeviceStatePayload{
		Brightness: brightness,
		Baseline:   baseline,
		Offset:     offset,
		Altitude:   altitude,
		Timestamp:  time.Now().UTC(),
	})
}

func (p mqttPublisher) PublishOffset(offset int) error {
	return p.client.PublishOffset(offset)
}
