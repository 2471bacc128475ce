package core

import "github.com/dkeye/RTCAgent/internal/domain"

type EventKind int

const (
	EventUserJoined EventKind = iota + 1
	EventUserLeft
	EventStreamAdd
	EventStreamRemove
	EventConnectionStateChanged
	EventError
	// EventSessionLost means the engine dropped the session on its own.
	// Err carries the cause.
	EventSessionLost
)

var eventNames = map[EventKind]string{
	EventUserJoined:             "userJoined",
	EventUserLeft:               "userLeft",
	EventStreamAdd:              "streamAdd",
	EventStreamRemove:           "streamRemove",
	EventConnectionStateChanged: "connectionStateChanged",
	EventError:                  "error",
	EventSessionLost:            "sessionLost",
}

func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// EngineEvent is what an engine reports. Only the fields relevant to Kind are set.
type EngineEvent struct {
	Kind        EventKind
	Participant domain.Participant
	Stream      domain.RemoteStream
	State       domain.ConnectionState
	Err         *domain.RTCError
}
