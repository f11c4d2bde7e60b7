// Package config loads and validates the sundim configuration.
//
// Configuration is YAML with three layers of precedence:
//
//  1. Hardcoded defaults (defaultConfig)
//  2. The YAML file (missing file falls back to defaults)
//  3. SUNDIM_* environment variable overrides
//
// Validation runs once at load time and collects every failure into a
// single error, so a broken config reports all problems at once. A
// validation failure is fatal: the daemon exits nonzero rather than run
// with an inverted brightness range or altitude window.
//
// # Example
//
//	location:
//	  manual_latitude: 52.3821
//	  manual_longitude: 16.9142
//	  use_auto_location: false
//	brightness:
//	  min_brightness: 1
//	  max_brightness: 100
//	  sun_down_alt: -6
//	  sun_high_alt: 30
//	  manual_change_tolerance: 2
//	devices:
//	  - kind: laptop
//	    name: "Laptop panel"
//	  - kind: monitor
//	    id: 1
//	    name: "Dell monitor"
//	system:
//	  update_interval: 300
//	  log_before_change_minutes: 15
package config
