// Package app owns one client: configuration, session facade and UI
// synchronizer, created at startup and torn down at shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/RTCAgent/internal/adapters/loopback"
	"github.com/dkeye/RTCAgent/internal/adapters/signal"
	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/dkeye/RTCAgent/internal/session"
	"github.com/dkeye/RTCAgent/internal/ui"
	"github.com/rs/zerolog/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// EngineFactory picks the engine variant named by rtc.engine.
func EngineFactory(cfg *config.Config) (core.EngineFactory, error) {
	switch cfg.RTC.Engine {
	case config.EngineSignal:
		return signal.Factory(signal.Options{
			URL:        cfg.RTC.SignalURL,
			AppID:      cfg.RTC.AppID,
			ICEServers: cfg.RTC.ICEServers,
		}), nil
	case config.EngineLoopback:
		return loopback.Factory(loopback.Options{
			Peers:           cfg.Dev.MockPeers,
			MaxParticipants: cfg.UI.MaxParticipants,
		}), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownEngine, cfg.RTC.Engine)
}

type Options struct {
	View    core.View
	Devices core.DeviceEnumerator
	// Factory overrides the engine chosen from config.
	Factory core.EngineFactory
}

type App struct {
	cfg    *config.Config
	facade *session.Facade
	sync   *ui.Synchronizer

	mu          sync.Mutex
	initialized bool
	autoJoin    *time.Timer
	shutdown    bool
}

// Status is the application snapshot shown by the status command.
type Status struct {
	Initialized bool               `json:"isInitialized"`
	Connected   bool               `json:"isConnected"`
	RoomInfo    domain.SessionInfo `json:"roomInfo"`
}

func New(cfg *config.Config, opts Options) (*App, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			log.Error().Err(err).Str("module", "app").Msg("configuration error")
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}

	factory := opts.Factory
	if factory == nil {
		var err error
		if factory, err = EngineFactory(cfg); err != nil {
			return nil, err
		}
	}

	facade := session.NewFacade(session.Options{
		Factory:  factory,
		Devices:  opts.Devices,
		TokenTTL: cfg.RTC.TokenTTL,
	})
	return &App{
		cfg:    cfg,
		facade: facade,
		sync:   ui.NewSynchronizer(cfg, facade, opts.View),
	}, nil
}

// Start initializes the engine. Failure is reported through the view and
// the app stays usable for a later join attempt.
func (a *App) Start(ctx context.Context) error {
	log.Info().Str("module", "app").Str("engine", a.cfg.RTC.Engine).Msg("initializing")
	if err := a.facade.Initialize(ctx); err != nil {
		log.Error().Err(err).Str("module", "app").Msg("initialization failed")
		return err
	}
	a.mu.Lock()
	a.initialized = true
	a.mu.Unlock()

	devs := a.facade.EnumerateDevices(ctx)
	log.Info().
		Str("module", "app").
		Int("cameras", len(devs.Cameras)).
		Int("microphones", len(devs.Microphones)).
		Msg("app initialized")
	return nil
}

// HandleURLParams reads room and user from a query string. When both are
// present and auto_join is on, a join is scheduled after auto_join_delay.
func (a *App) HandleURLParams(ctx context.Context, rawQuery string) (room, user string, scheduled bool) {
	q, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil {
		log.Warn().Err(err).Str("module", "app").Msg("bad url params")
		return "", "", false
	}
	room, user = q.Get("room"), q.Get("user")
	if room == "" || user == "" || !a.cfg.UI.AutoJoin {
		return room, user, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.shutdown {
		return room, user, false
	}
	if a.autoJoin != nil {
		a.autoJoin.Stop()
	}
	log.Info().Str("module", "app").Str("room", room).Str("user", user).Dur("delay", a.cfg.UI.AutoJoinDelay).Msg("auto-join scheduled")
	a.autoJoin = time.AfterFunc(a.cfg.UI.AutoJoinDelay, func() {
		if err := a.sync.HandleJoin(context.WithoutCancel(ctx), room, user); err != nil {
			log.Warn().Err(err).Str("module", "app").Msg("auto-join failed")
		}
	})
	return room, user, true
}

func (a *App) Status() Status {
	a.mu.Lock()
	initialized := a.initialized
	a.mu.Unlock()
	return Status{
		Initialized: initialized,
		Connected:   a.facade.IsJoined(),
		RoomInfo:    a.facade.RoomInfo(),
	}
}

func (a *App) Devices(ctx context.Context) domain.DeviceList {
	return a.facade.EnumerateDevices(ctx)
}

// DevicesChanged re-enumerates after the host reports a device change.
func (a *App) DevicesChanged(ctx context.Context) domain.DeviceList {
	log.Info().Str("module", "app").Msg("media devices changed")
	return a.facade.EnumerateDevices(ctx)
}

func (a *App) Synchronizer() *ui.Synchronizer { return a.sync }

// Shutdown leaves the room if joined and destroys the facade. Safe to
// call more than once.
func (a *App) Shutdown(ctx context.Context) {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return
	}
	a.shutdown = true
	if a.autoJoin != nil {
		a.autoJoin.Stop()
	}
	a.mu.Unlock()

	log.Info().Str("module", "app").Msg("shutting down")
	if a.facade.IsJoined() {
		a.sync.HandleLeave(ctx)
	}
	a.sync.Wait()
	a.facade.Destroy()
}
