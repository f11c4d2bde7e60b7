// Package location resolves the geographic coordinates used for solar
// altitude calculation.
//
// A Resolver tries an ordered chain of providers and returns the first
// success. Three providers are available:
//
//   - ManualProvider: coordinates from configuration (preferred)
//   - GeoClueProvider: the GeoClue where-am-i demo, run as a subprocess
//   - IPProvider: an HTTP IP-geolocation endpoint as last resort
//
// Location is resolved once at startup and held immutable afterwards;
// the daemon does not track a moving machine.
package location
