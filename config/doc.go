// Package config loads the overlay configuration from YAML.
//
// Fields missing from the file keep their defaults, so an empty file is a
// valid configuration:
//
//	thresholds:
//	  distance: 100
//	  ratio: 0.4
//	reveal_delay: 2s
//	volume: 1.0
//	refresh_rate_hz: 60
//	log_level: info
package config
