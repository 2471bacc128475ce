package session

import (
	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/rs/zerolog/log"
)

// Handlers is the callback set. One handler per event; nil means ignored.
type Handlers struct {
	UserJoined             func(domain.Participant)
	UserLeft               func(domain.Participant)
	StreamAdd              func(domain.RemoteStream)
	StreamRemove           func(domain.RemoteStream)
	ConnectionStateChanged func(domain.ConnectionState)
	Error                  func(domain.RTCError)
	// SessionLost runs after the engine dropped an active session and the
	// facade forgot it. Error runs next with the same cause.
	SessionLost func(domain.RTCError)
}

func (f *Facade) OnUserJoined(fn func(domain.Participant)) {
	f.hmu.Lock()
	f.handlers.UserJoined = fn
	f.hmu.Unlock()
}

func (f *Facade) OnUserLeft(fn func(domain.Participant)) {
	f.hmu.Lock()
	f.handlers.UserLeft = fn
	f.hmu.Unlock()
}

func (f *Facade) OnStreamAdd(fn func(domain.RemoteStream)) {
	f.hmu.Lock()
	f.handlers.StreamAdd = fn
	f.hmu.Unlock()
}

func (f *Facade) OnStreamRemove(fn func(domain.RemoteStream)) {
	f.hmu.Lock()
	f.handlers.StreamRemove = fn
	f.hmu.Unlock()
}

func (f *Facade) OnConnectionStateChanged(fn func(domain.ConnectionState)) {
	f.hmu.Lock()
	f.handlers.ConnectionStateChanged = fn
	f.hmu.Unlock()
}

func (f *Facade) OnError(fn func(domain.RTCError)) {
	f.hmu.Lock()
	f.handlers.Error = fn
	f.hmu.Unlock()
}

func (f *Facade) OnSessionLost(fn func(domain.RTCError)) {
	f.hmu.Lock()
	f.handlers.SessionLost = fn
	f.hmu.Unlock()
}

// dispatch routes each engine event kind to its callback.
var dispatch = map[core.EventKind]func(h Handlers, ev core.EngineEvent){
	core.EventUserJoined: func(h Handlers, ev core.EngineEvent) {
		if h.UserJoined != nil {
			h.UserJoined(ev.Participant)
		}
	},
	core.EventUserLeft: func(h Handlers, ev core.EngineEvent) {
		if h.UserLeft != nil {
			h.UserLeft(ev.Participant)
		}
	},
	core.EventStreamAdd: func(h Handlers, ev core.EngineEvent) {
		if h.StreamAdd != nil {
			h.StreamAdd(ev.Stream)
		}
	},
	core.EventStreamRemove: func(h Handlers, ev core.EngineEvent) {
		if h.StreamRemove != nil {
			h.StreamRemove(ev.Stream)
		}
	},
	core.EventConnectionStateChanged: func(h Handlers, ev core.EngineEvent) {
		if h.ConnectionStateChanged != nil {
			h.ConnectionStateChanged(ev.State)
		}
	},
	core.EventError: func(h Handlers, ev core.EngineEvent) {
		if h.Error != nil && ev.Err != nil {
			h.Error(*ev.Err)
		}
	},
	core.EventSessionLost: func(h Handlers, ev core.EngineEvent) {
		cause := domain.RTCError{Type: domain.ErrNetwork, Message: "session lost"}
		if ev.Err != nil {
			cause = *ev.Err
		}
		if h.SessionLost != nil {
			h.SessionLost(cause)
		}
		if h.Error != nil {
			h.Error(cause)
		}
	},
}

func (f *Facade) handleEngineEvent(ev core.EngineEvent) {
	route, ok := dispatch[ev.Kind]
	if !ok {
		log.Warn().Str("module", "session").Int("kind", int(ev.Kind)).Msg("unknown engine event")
		return
	}

	f.mu.Lock()
	local := f.session.LocalUserID
	switch ev.Kind {
	case core.EventUserJoined:
		if ev.Participant.UserID == local {
			f.mu.Unlock()
			return
		}
		f.session.ParticipantCount++
	case core.EventUserLeft:
		if ev.Participant.UserID == local {
			f.mu.Unlock()
			return
		}
		if f.session.ParticipantCount > 0 {
			f.session.ParticipantCount--
		}
	case core.EventSessionLost:
		if f.session.RoomID == "" {
			f.mu.Unlock()
			return
		}
		log.Warn().Str("module", "session").Str("room", string(f.session.RoomID)).Msg("session lost")
		f.session = domain.SessionInfo{}
	}
	f.mu.Unlock()

	log.Debug().Str("module", "session").Str("event", ev.Kind.String()).Msg("engine event")

	f.hmu.RLock()
	h := f.handlers
	f.hmu.RUnlock()
	route(h, ev)
}

func (f *Facade) notifyError(t domain.ErrorType, msg string) {
	f.handleEngineEvent(core.EngineEvent{
		Kind: core.EventError,
		Err:  domain.NewRTCError(t, msg),
	})
}

func (f *Facade) queueError(t domain.ErrorType, msg string) {
	f.mu.Lock()
	f.pending = append(f.pending, *domain.NewRTCError(t, msg))
	f.mu.Unlock()
}

func (f *Facade) flushErrors() {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()
	for _, e := range pending {
		f.notifyError(e.Type, e.Message)
	}
}
