package core

//go:generate mockgen -destination=mocks/mock_core.go -package=mocks . Engine,DeviceEnumerator

import (
	"context"

	"github.com/dkeye/RTCAgent/internal/domain"
)

// Engine is the external call-capable SDK seen through the facade.
// Implementations own all media, signaling and negotiation state.
type Engine interface {
	// Init checks the underlying SDK is usable and prepares it.
	Init(ctx context.Context) error
	Join(ctx context.Context, room domain.RoomID, user domain.UserID, token string) error
	Leave(ctx context.Context) error

	AudioMuted(ctx context.Context) (bool, error)
	SetAudioMuted(ctx context.Context, muted bool) error
	VideoMuted(ctx context.Context) (bool, error)
	SetVideoMuted(ctx context.Context, muted bool) error

	StartScreenShare(ctx context.Context) error
	StopScreenShare(ctx context.Context) error

	// Subscribe registers the single event sink. A later call replaces it.
	Subscribe(sink func(EngineEvent))
	// Close releases everything. Safe to call more than once.
	Close() error
}

// EngineFactory constructs an engine; the facade calls it at most once.
type EngineFactory func() (Engine, error)

// DeviceEnumerator lists host media devices.
type DeviceEnumerator interface {
	EnumerateDevices(ctx context.Context) ([]domain.Device, error)
}
