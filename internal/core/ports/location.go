package ports

import (
	"context"
	"time"
)

// PermissionState mirrors the device gateway's location permission query.
type PermissionState string

const (
	PermissionGranted PermissionState = "granted"
	PermissionDenied  PermissionState = "denied"
	PermissionPrompt  PermissionState = "prompt"
)

// Position is a device location fix.
type Position struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	AccuracyM  float64   `json:"accuracy_m"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ProbeOptions bounds a single position probe.
type ProbeOptions struct {
	// Timeout caps how long the probe may wait for a fix.
	Timeout time.Duration
	// MaximumAge allows a cached fix no older than this to satisfy the
	// probe without contacting the device.
	MaximumAge time.Duration
	// HighAccuracy requests a precise fix from the device.
	HighAccuracy bool
}

// LocationProbe is the device/browser location capability.
type LocationProbe interface {
	CurrentPosition(ctx context.Context, opts ProbeOptions) (*Position, error)
	PermissionState(ctx context.Context) (PermissionState, error)
}

// SessionMonitor watches the location capability while a session is active
// and reports availability for the login precondition.
type SessionMonitor interface {
	// Start begins polling; onLost is invoked once when sustained capability
	// loss forces the session to end. Re-entrant: a prior cycle is torn
	// down first.
	Start(onLost func())
	// Stop tears down the polling timer. Safe to call repeatedly.
	Stop()
	// Available performs a one-shot capability check. It never panics;
	// probe errors report as unavailable.
	Available(ctx context.Context) bool
}
