// Package session wraps a call-capable engine behind one small interface
// and republishes its events as a fixed set of callbacks.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/dkeye/RTCAgent/internal/token"
	"github.com/rs/zerolog/log"
)

var (
	ErrSDKUnavailable  = errors.New("sdk unavailable")
	ErrJoinFailed      = errors.New("join failed")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDestroyed       = errors.New("facade destroyed")
	ErrSessionLost     = errors.New("session lost while joining")
)

type Options struct {
	Factory core.EngineFactory
	Devices core.DeviceEnumerator
	// TokenTTL is the lifetime in seconds of locally synthesized tokens.
	TokenTTL int64
	Now      func() time.Time
}

// Facade owns the single engine instance and the session flag.
// join and leave are serialized by opMu. Errors raised by the facade itself
// are queued and delivered once opMu is released.
type Facade struct {
	factory  core.EngineFactory
	devices  core.DeviceEnumerator
	tokenTTL int64
	now      func() time.Time

	opMu sync.Mutex

	mu        sync.RWMutex
	engine    core.Engine
	session   domain.SessionInfo
	destroyed bool
	pending   []domain.RTCError

	hmu      sync.RWMutex
	handlers Handlers
}

func NewFacade(opts Options) *Facade {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = token.DefaultTTL
	}
	log.Debug().Str("module", "session").Msg("facade created")
	return &Facade{
		factory:  opts.Factory,
		devices:  opts.Devices,
		tokenTTL: ttl,
		now:      now,
	}
}

// Initialize constructs the engine once. Later calls are no-ops.
func (f *Facade) Initialize(ctx context.Context) error {
	defer f.flushErrors()
	f.opMu.Lock()
	defer f.opMu.Unlock()
	return f.initLocked(ctx)
}

func (f *Facade) initLocked(ctx context.Context) error {
	f.mu.RLock()
	ready, destroyed := f.engine != nil, f.destroyed
	f.mu.RUnlock()
	if destroyed {
		return ErrDestroyed
	}
	if ready {
		return nil
	}

	log.Debug().Str("module", "session").Msg("initializing engine")
	if f.factory == nil {
		f.queueError(domain.ErrInitFailed, "no engine configured")
		return ErrSDKUnavailable
	}
	eng, err := f.factory()
	if err != nil {
		log.Error().Err(err).Str("module", "session").Msg("engine construction failed")
		f.queueError(domain.ErrInitFailed, err.Error())
		return fmt.Errorf("%w: %w", ErrSDKUnavailable, err)
	}
	if err := eng.Init(ctx); err != nil {
		log.Error().Err(err).Str("module", "session").Msg("engine init failed")
		_ = eng.Close()
		f.queueError(domain.ErrInitFailed, err.Error())
		return fmt.Errorf("%w: %w", ErrSDKUnavailable, err)
	}
	eng.Subscribe(f.handleEngineEvent)

	f.mu.Lock()
	f.engine = eng
	f.mu.Unlock()
	log.Info().Str("module", "session").Msg("engine initialized")
	return nil
}

// Join enters room as user. An active session is left first and the leave
// completes before the new join starts. An empty tok is replaced by a
// locally issued mock token.
func (f *Facade) Join(ctx context.Context, room, user, tok string) (domain.SessionInfo, error) {
	roomID, err := domain.NewRoomID(room)
	if err != nil {
		return domain.SessionInfo{}, fmt.Errorf("%w: %w: %w", ErrJoinFailed, ErrInvalidArgument, err)
	}
	userID, err := domain.NewUserID(user)
	if err != nil {
		return domain.SessionInfo{}, fmt.Errorf("%w: %w: %w", ErrJoinFailed, ErrInvalidArgument, err)
	}

	defer f.flushErrors()
	f.opMu.Lock()
	defer f.opMu.Unlock()

	if err := f.initLocked(ctx); err != nil {
		return domain.SessionInfo{}, fmt.Errorf("%w: %w", ErrJoinFailed, err)
	}

	if f.IsJoined() {
		f.leaveLocked(ctx)
	}

	if tok == "" {
		issued, err := token.Issue(roomID, userID, f.tokenTTL, f.now())
		if err != nil {
			return domain.SessionInfo{}, fmt.Errorf("%w: %w", ErrJoinFailed, err)
		}
		tok = issued.Token
	}

	logger := log.With().Str("module", "session").Str("room", string(roomID)).Str("user", string(userID)).Logger()
	logger.Info().Msg("joining room")

	f.mu.Lock()
	eng := f.engine
	f.session = domain.SessionInfo{RoomID: roomID, LocalUserID: userID}
	f.mu.Unlock()

	if err := eng.Join(ctx, roomID, userID, tok); err != nil {
		logger.Error().Err(err).Msg("join failed")
		f.mu.Lock()
		f.session = domain.SessionInfo{}
		f.mu.Unlock()

		var re *domain.RTCError
		if errors.As(err, &re) {
			f.queueError(re.Type, re.Message)
		} else {
			f.queueError(domain.ErrJoinFailed, err.Error())
		}
		return domain.SessionInfo{}, fmt.Errorf("%w: %w", ErrJoinFailed, err)
	}

	f.mu.Lock()
	if f.session.RoomID != roomID || f.session.LocalUserID != userID {
		f.mu.Unlock()
		logger.Warn().Msg("session lost during join")
		return domain.SessionInfo{}, fmt.Errorf("%w: %w", ErrJoinFailed, ErrSessionLost)
	}
	f.session.Joined = true
	info := f.session
	f.mu.Unlock()
	logger.Info().Msg("joined room")
	return info, nil
}

// Leave ends the active session. Without one it does nothing.
func (f *Facade) Leave(ctx context.Context) {
	defer f.flushErrors()
	f.opMu.Lock()
	defer f.opMu.Unlock()
	f.leaveLocked(ctx)
}

func (f *Facade) leaveLocked(ctx context.Context) {
	f.mu.RLock()
	eng, info := f.engine, f.session
	f.mu.RUnlock()
	if !info.Joined || eng == nil {
		return
	}

	logger := log.With().Str("module", "session").Str("room", string(info.RoomID)).Str("user", string(info.LocalUserID)).Logger()
	logger.Info().Msg("leaving room")
	if err := eng.Leave(ctx); err != nil {
		// the local session ends regardless
		logger.Warn().Err(err).Msg("leave failed")
		f.queueError(domain.ErrLeaveFailed, err.Error())
	}

	f.mu.Lock()
	f.session = domain.SessionInfo{}
	f.mu.Unlock()
	logger.Info().Msg("left room")
}

// ToggleMicrophone flips the microphone and returns whether it is now on.
func (f *Facade) ToggleMicrophone(ctx context.Context) bool {
	return f.toggle(ctx, "microphone", core.Engine.AudioMuted, core.Engine.SetAudioMuted)
}

// ToggleCamera flips the camera and returns whether it is now on.
func (f *Facade) ToggleCamera(ctx context.Context) bool {
	return f.toggle(ctx, "camera", core.Engine.VideoMuted, core.Engine.SetVideoMuted)
}

func (f *Facade) toggle(
	ctx context.Context,
	what string,
	get func(core.Engine, context.Context) (bool, error),
	set func(core.Engine, context.Context, bool) error,
) bool {
	eng, ok := f.activeEngine()
	if !ok {
		log.Warn().Str("module", "session").Str("device", what).Msg("toggle without active session")
		return false
	}
	muted, err := get(eng, ctx)
	if err != nil {
		log.Error().Err(err).Str("module", "session").Str("device", what).Msg("read mute state")
		return false
	}
	if err := set(eng, ctx, !muted); err != nil {
		log.Error().Err(err).Str("module", "session").Str("device", what).Msg("toggle failed")
		return false
	}
	log.Debug().Str("module", "session").Str("device", what).Bool("on", muted).Msg("toggled")
	return muted
}

func (f *Facade) StartScreenShare(ctx context.Context) bool {
	eng, ok := f.activeEngine()
	if !ok {
		log.Warn().Str("module", "session").Msg("screen share without active session")
		return false
	}
	if err := eng.StartScreenShare(ctx); err != nil {
		log.Error().Err(err).Str("module", "session").Msg("start screen share")
		f.notifyError(domain.ErrStreamFailed, err.Error())
		return false
	}
	return true
}

func (f *Facade) StopScreenShare(ctx context.Context) bool {
	eng, ok := f.activeEngine()
	if !ok {
		return false
	}
	if err := eng.StopScreenShare(ctx); err != nil {
		log.Error().Err(err).Str("module", "session").Msg("stop screen share")
		return false
	}
	return true
}

// EnumerateDevices never fails: denied or missing enumeration yields
// empty lists and a warning.
func (f *Facade) EnumerateDevices(ctx context.Context) domain.DeviceList {
	if f.devices == nil {
		log.Warn().Str("module", "session").Msg("device enumeration not supported")
		return domain.EmptyDeviceList()
	}
	devs, err := f.devices.EnumerateDevices(ctx)
	if err != nil {
		log.Warn().Err(err).Str("module", "session").Msg("device enumeration failed")
		return domain.EmptyDeviceList()
	}
	list := domain.GroupDevices(devs)
	log.Debug().
		Str("module", "session").
		Int("cameras", len(list.Cameras)).
		Int("microphones", len(list.Microphones)).
		Int("speakers", len(list.Speakers)).
		Msg("devices found")
	return list
}

// Destroy leaves, closes the engine and drops all handlers.
func (f *Facade) Destroy() {
	defer f.flushErrors()
	f.opMu.Lock()
	defer f.opMu.Unlock()

	f.mu.RLock()
	destroyed := f.destroyed
	f.mu.RUnlock()
	if destroyed {
		return
	}
	log.Info().Str("module", "session").Msg("destroying facade")

	f.leaveLocked(context.Background())

	f.mu.Lock()
	eng := f.engine
	f.engine = nil
	f.destroyed = true
	f.mu.Unlock()

	if eng != nil {
		eng.Subscribe(nil)
		if err := eng.Close(); err != nil {
			log.Warn().Err(err).Str("module", "session").Msg("engine close")
		}
	}

	f.hmu.Lock()
	f.handlers = Handlers{}
	f.hmu.Unlock()
}

// RoomInfo is a snapshot of the current session.
func (f *Facade) RoomInfo() domain.SessionInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.session
}

func (f *Facade) IsJoined() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.session.Joined
}

func (f *Facade) Initialized() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.engine != nil
}

func (f *Facade) activeEngine() (core.Engine, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.engine == nil || !f.session.Joined {
		return nil, false
	}
	return f.engine, true
}
