package location

import (
	"context"
	"fmt"
)

// Logger is the minimal logging interface used by the resolver.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Resolver tries a chain of providers in order and returns the first
// location that resolves. Provider failures are logged and the chain
// continues; only when every provider fails does Resolve return an error.
type Resolver struct {
	providers []Provider
	logger    Logger
}

// NewResolver creates a resolver over the given providers, tried in order.
// Pass nil for logger to disable logging.
func NewResolver(logger Logger, providers ...Provider) *Resolver {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Resolver{providers: providers, logger: logger}
}

// Resolve returns the first successful provider result.
//
// Returns ErrUnavailable (wrapping the last provider error) when no
// provider could produce a valid location.
func (r *Resolver) Resolve(ctx context.Context) (Location, error) {
	var lastErr error

	for _, p := range r.providers {
		if err := ctx.Err(); err != nil {
			return Location{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		loc, err := p.Locate(ctx)
		if err != nil {
			r.logger.Warn("location provider failed",
				"provider", p.Name(),
				"error", err)
			lastErr = err
			continue
		}

		r.logger.Info("location resolved",
			"provider", p.Name(),
			"location", loc.String())
		return loc, nil
	}

	if lastErr != nil {
		return Location{}, fmt.Errorf("%w: all providers failed: %w", ErrUnavailable, lastErr)
	}
	return Location{}, fmt.Errorf("%w: no providers configured", ErrUnavailable)
}
