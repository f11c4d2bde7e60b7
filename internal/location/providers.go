package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

// Provider resolves a geographic location from one source.
type Provider interface {
	// Locate returns the location or an error when the source is unavailable.
	Locate(ctx context.Context) (Location, error)

	// Name identifies the provider in logs.
	Name() string
}

// ManualProvider returns the coordinates configured by the user.
type ManualProvider struct {
	Latitude  float64
	Longitude float64
}

// Locate returns the configured coordinates after range validation.
func (p ManualProvider) Locate(_ context.Context) (Location, error) {
	loc := Location{Latitude: p.Latitude, Longitude: p.Longitude, Source: SourceManual}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Name implements Provider.
func (ManualProvider) Name() string { return "manual" }

// RunFunc executes an external command and returns its combined stdout.
// It exists so tests can substitute canned output for the GeoClue demo.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// geoclueLatPattern and geoclueLonPattern match the where-am-i demo output.
var (
	geoclueLatPattern = regexp.MustCompile(`Latitude:\s*(-?\d+\.\d+)`)
	geoclueLonPattern = regexp.MustCompile(`Longitude:\s*(-?\d+\.\d+)`)
)

// GeoClueProvider shells out to the GeoClue where-am-i demo and parses the
// printed coordinates. The D-Bus protocol itself is deliberately not
// implemented here; the demo binary is the collaborator.
type GeoClueProvider struct {
	// Binary is the path to the where-am-i executable.
	Binary string

	// Timeout bounds the lookup; GeoClue can block while agents negotiate.
	Timeout time.Duration

	// Run executes the lookup. Defaults to exec.CommandContext.
	Run RunFunc
}

// Locate runs the GeoClue demo and extracts latitude/longitude.
func (p GeoClueProvider) Locate(ctx context.Context) (Location, error) {
	run := p.Run
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		}
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := run(ctx, p.Binary)
	if err != nil {
		return Location{}, fmt.Errorf("%w: geoclue: %w", ErrUnavailable, err)
	}

	latMatch := geoclueLatPattern.FindSubmatch(out)
	lonMatch := geoclueLonPattern.FindSubmatch(out)
	if latMatch == nil || lonMatch == nil {
		return Location{}, fmt.Errorf("%w: geoclue output", ErrNoMatch)
	}

	lat, err := strconv.ParseFloat(string(latMatch[1]), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: geoclue latitude: %w", ErrNoMatch, err)
	}
	lon, err := strconv.ParseFloat(string(lonMatch[1]), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: geoclue longitude: %w", ErrNoMatch, err)
	}

	loc := Location{Latitude: lat, Longitude: lon, Source: SourceAuto}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Name implements Provider.
func (GeoClueProvider) Name() string { return "geoclue" }

// ipResponse is the subset of the IP geolocation payload we consume.
type ipResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// maxIPResponseSize bounds the geolocation response body.
const maxIPResponseSize = 1 << 16

// IPProvider queries an IP geolocation endpoint over HTTP.
type IPProvider struct {
	// URL is the JSON geolocation endpoint.
	URL string

	// Client is the HTTP client to use. Defaults to a 10s-timeout client.
	Client *http.Client
}

// Locate fetches and parses the geolocation response.
func (p IPProvider) Locate(ctx context.Context) (Location, error) {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return Location{}, fmt.Errorf("%w: ip lookup request: %w", ErrUnavailable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: ip lookup: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("%w: ip lookup status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIPResponseSize))
	if err != nil {
		return Location{}, fmt.Errorf("%w: ip lookup body: %w", ErrUnavailable, err)
	}

	var parsed ipResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Location{}, fmt.Errorf("%w: ip lookup payload: %w", ErrNoMatch, err)
	}
	if parsed.Status != "" && parsed.Status != "success" {
		return Location{}, fmt.Errorf("%w: ip lookup status %q", ErrUnavailable, parsed.Status)
	}

	loc := Location{Latitude: parsed.Lat, Longitude: parsed.Lon, Source: SourceAuto}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Name implements Provider.
func (IPProvider) Name() string { return "ip" }
