// Package optimization provides concurrency tuning for the frame loop and
// the broadcast fan-out.
package optimization

import (
	"runtime"
)

// Config holds tuned buffer and pool sizes. A 60 Hz frame broadcast with a
// classroom of display clients is bursty: buffers absorb the bursts, the
// frame loop never blocks on a slow client.
type Config struct {
	// Channel buffer sizes
	ControlChannelBuffer   int
	BroadcastChannelBuffer int
	ClientSendBuffer       int

	// Database connections
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Rate limiting
	MaxActionsPerSecond int
	MaxClients          int
}

// DefaultConfig returns sensible defaults for production.
func DefaultConfig() *Config {
	numCPU := runtime.NumCPU()

	return &Config{
		ControlChannelBuffer:   256, // Slider drags arrive in bursts
		BroadcastChannelBuffer: 64,  // One frame per entry; stale frames are droppable
		ClientSendBuffer:       64,

		DBMaxOpenConns: numCPU * 2,
		DBMaxIdleConns: numCPU,

		MaxActionsPerSecond: 120, // Per client; a slider drag fires ~60/s
		MaxClients:          200,
	}
}

// LowResourceConfig returns minimal settings for development.
func LowResourceConfig() *Config {
	return &Config{
		ControlChannelBuffer:   32,
		BroadcastChannelBuffer: 8,
		ClientSendBuffer:       8,

		DBMaxOpenConns: 2,
		DBMaxIdleConns: 1,

		MaxActionsPerSecond: 30,
		MaxClients:          20,
	}
}
