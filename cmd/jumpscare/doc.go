// Package main runs the green-screen overlay headless.
//
// The binary loads a clip, triggers the overlay once and keys out the
// green background of every frame, writing the composited frames to a PNG
// sequence. It exits when the clip ends, when the close timeout fires or on
// interrupt, and prints the frame statistics.
//
// # Usage
//
// Play the built-in synthetic clip and discard the output:
//
//	go run ./cmd/jumpscare
//
// Key an animated GIF into a directory of PNG files:
//
//	go run ./cmd/jumpscare -gif scare.gif -out frames/ -width 1280 -height 720
//
// Key a directory of still frames at 24 fps and close after three seconds:
//
//	go run ./cmd/jumpscare -frames clip/ -fps 24 -close-after 3s -out frames/
//
// Simulate a host whose autoplay policy rejects unmuted playback:
//
//	go run ./cmd/jumpscare -autoplay-blocked
//
// # Configuration Options
//
//   - -config: YAML configuration file (see package config)
//   - -frames: directory of frame images
//   - -gif: animated GIF file
//   - -fps: frame rate for -frames (default: 30)
//   - -out: directory for the PNG sequence (default: keep frames in memory)
//   - -width, -height: viewport size (default: 640x360)
//   - -close-after: press the close control after this long (default: never)
//   - -autoplay-blocked: reject unmuted playback
//   - -log-level: overrides log_level from the configuration file
package main
