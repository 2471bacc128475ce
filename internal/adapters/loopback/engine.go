// Package loopback is an in-process engine for mock mode: no network, no
// media, simulated peers.
package loopback

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/dkeye/RTCAgent/internal/token"
	"github.com/rs/zerolog/log"
)

var (
	ErrClosed    = errors.New("engine closed")
	ErrNotJoined = errors.New("not joined")
)

type Options struct {
	// Peers join right after the local user does.
	Peers []string
	// MaxParticipants includes the local user; 0 means unlimited.
	MaxParticipants int
	Now             func() time.Time
}

type handle struct {
	id   string
	kind string
}

func (h handle) ID() string   { return h.id }
func (h handle) Kind() string { return h.kind }

type Engine struct {
	opts Options

	mu          sync.Mutex
	sink        func(core.EngineEvent)
	closed      bool
	joined      bool
	room        domain.RoomID
	user        domain.UserID
	peers       map[domain.UserID]bool // value: has stream
	audioMuted  bool
	videoMuted  bool
	sharing     bool
	expiryTimer *time.Timer
}

func New(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{opts: opts, peers: make(map[domain.UserID]bool)}
}

// Factory adapts New to the facade's engine constructor.
func Factory(opts Options) core.EngineFactory {
	return func() (core.Engine, error) { return New(opts), nil }
}

func (e *Engine) Init(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	log.Debug().Str("module", "loopback").Msg("engine ready")
	return nil
}

func (e *Engine) Subscribe(sink func(core.EngineEvent)) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

func (e *Engine) emit(ev core.EngineEvent) {
	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}

func (e *Engine) Join(_ context.Context, room domain.RoomID, user domain.UserID, tok string) error {
	now := e.opts.Now()
	var expiresAt time.Time
	if strings.HasPrefix(tok, token.Prefix) {
		p, err := token.Validate(tok, now)
		switch {
		case errors.Is(err, token.ErrExpired):
			return domain.NewRTCError(domain.ErrTokenExpired, "token expired")
		case err != nil:
			return domain.NewRTCError(domain.ErrJoinFailed, err.Error())
		}
		expiresAt = p.ExpiresAt()
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if limit := e.opts.MaxParticipants; limit > 0 && len(e.opts.Peers)+1 > limit {
		e.mu.Unlock()
		return domain.NewRTCError(domain.ErrRoomFull, "room has reached its maximum capacity")
	}
	e.joined = true
	e.room, e.user = room, user
	e.audioMuted, e.videoMuted, e.sharing = false, false, false
	if !expiresAt.IsZero() {
		e.expiryTimer = time.AfterFunc(expiresAt.Sub(now), e.expire)
	}
	e.mu.Unlock()

	log.Info().Str("module", "loopback").Str("room", string(room)).Str("user", string(user)).Msg("joined")
	e.emit(core.EngineEvent{Kind: core.EventConnectionStateChanged, State: domain.StateConnecting})
	e.emit(core.EngineEvent{Kind: core.EventConnectionStateChanged, State: domain.StateConnected})
	for _, p := range e.opts.Peers {
		e.AddPeer(domain.UserID(p))
	}
	return nil
}

func (e *Engine) expire() {
	e.mu.Lock()
	joined := e.joined
	e.mu.Unlock()
	if !joined {
		return
	}
	log.Warn().Str("module", "loopback").Msg("token expired")
	e.InjectError(domain.ErrTokenExpired, "token expired")
}

func (e *Engine) Leave(context.Context) error {
	e.mu.Lock()
	if !e.joined {
		e.mu.Unlock()
		return ErrNotJoined
	}
	e.resetLocked()
	e.mu.Unlock()

	e.emit(core.EngineEvent{Kind: core.EventConnectionStateChanged, State: domain.StateDisconnected})
	return nil
}

// Disconnect drops the session as a lost connection would.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	if !e.joined {
		e.mu.Unlock()
		return
	}
	e.resetLocked()
	e.mu.Unlock()

	log.Warn().Str("module", "loopback").Msg("connection lost")
	e.emit(core.EngineEvent{Kind: core.EventConnectionStateChanged, State: domain.StateDisconnected})
	e.emit(core.EngineEvent{
		Kind: core.EventSessionLost,
		Err:  domain.NewRTCError(domain.ErrNetwork, "connection lost"),
	})
}

func (e *Engine) resetLocked() {
	if e.expiryTimer != nil {
		e.expiryTimer.Stop()
		e.expiryTimer = nil
	}
	e.joined = false
	e.room, e.user = "", ""
	e.peers = make(map[domain.UserID]bool)
}

func (e *Engine) AudioMuted(context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.joined {
		return false, ErrNotJoined
	}
	return e.audioMuted, nil
}

func (e *Engine) SetAudioMuted(_ context.Context, muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.joined {
		return ErrNotJoined
	}
	e.audioMuted = muted
	return nil
}

func (e *Engine) VideoMuted(context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.joined {
		return false, ErrNotJoined
	}
	return e.videoMuted, nil
}

func (e *Engine) SetVideoMuted(_ context.Context, muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.joined {
		return ErrNotJoined
	}
	e.videoMuted = muted
	return nil
}

func (e *Engine) StartScreenShare(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.joined {
		return ErrNotJoined
	}
	e.sharing = true
	return nil
}

func (e *Engine) StopScreenShare(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.joined {
		return ErrNotJoined
	}
	e.sharing = false
	return nil
}

func (e *Engine) Sharing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sharing
}

// AddPeer simulates a remote participant joining and publishing a stream.
func (e *Engine) AddPeer(id domain.UserID) {
	e.mu.Lock()
	if !e.joined || id == e.user {
		e.mu.Unlock()
		return
	}
	e.peers[id] = true
	e.mu.Unlock()

	p := domain.Participant{UserID: id, DisplayName: string(id)}
	e.emit(core.EngineEvent{Kind: core.EventUserJoined, Participant: p})
	e.emit(core.EngineEvent{
		Kind:   core.EventStreamAdd,
		Stream: domain.RemoteStream{UserID: id, Handle: handle{id: "loopback-" + string(id), kind: "video"}},
	})
}

// RemovePeer simulates a remote participant leaving.
func (e *Engine) RemovePeer(id domain.UserID) {
	e.mu.Lock()
	if _, ok := e.peers[id]; !ok {
		e.mu.Unlock()
		return
	}
	delete(e.peers, id)
	e.mu.Unlock()

	e.emit(core.EngineEvent{Kind: core.EventUserLeft, Participant: domain.Participant{UserID: id, DisplayName: string(id)}})
}

// DropStream simulates a remote stream ending while its owner stays.
func (e *Engine) DropStream(id domain.UserID) {
	e.mu.Lock()
	had := e.peers[id]
	if had {
		e.peers[id] = false
	}
	e.mu.Unlock()
	if !had {
		return
	}
	e.emit(core.EngineEvent{
		Kind:   core.EventStreamRemove,
		Stream: domain.RemoteStream{UserID: id, Handle: handle{id: "loopback-" + string(id), kind: "video"}},
	})
}

// InjectError reports an engine-side error.
func (e *Engine) InjectError(t domain.ErrorType, msg string) {
	e.emit(core.EngineEvent{Kind: core.EventError, Err: domain.NewRTCError(t, msg)})
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.resetLocked()
	e.closed = true
	e.sink = nil
	log.Debug().Str("module", "loopback").Msg("engine closed")
	return nil
}
