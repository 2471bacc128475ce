package domain

// SessionInfo is the local client's membership state in a room.
// Zero value means "not in a room".
type SessionInfo struct {
	RoomID           RoomID `json:"roomId"`
	LocalUserID      UserID `json:"userId"`
	Joined           bool   `json:"isJoined"`
	ParticipantCount int    `json:"participantCount"`
}

// MediaHandle is an opaque handle to a remote stream owned by the engine.
type MediaHandle interface {
	ID() string
	Kind() string
}

// RemoteStream pairs a remote participant with its subscribed media.
type RemoteStream struct {
	UserID UserID
	Handle MediaHandle
}

// UIState holds local-only toggles; only the synchronizer mutates it.
type UIState struct {
	IsMicOn         bool `json:"isMicOn"`
	IsCameraOn      bool `json:"isCameraOn"`
	IsScreenSharing bool `json:"isScreenSharing"`
	IsJoined        bool `json:"isJoined"`
}

func DefaultUIState() UIState {
	return UIState{IsMicOn: true, IsCameraOn: true}
}

type ConnectionState string

const (
	StateConnected    ConnectionState = "connected"
	StateConnecting   ConnectionState = "connecting"
	StateDisconnected ConnectionState = "disconnected"
	StateReconnecting ConnectionState = "reconnecting"
	StateFailed       ConnectionState = "failed"
)

var connectionText = map[ConnectionState]string{
	StateConnected:    "Connected",
	StateConnecting:   "Connecting...",
	StateDisconnected: "Disconnected",
	StateReconnecting: "Reconnecting...",
	StateFailed:       "Connection Failed",
}

// Text returns the banner text; unknown states are shown verbatim.
func (s ConnectionState) Text() string {
	if t, ok := connectionText[s]; ok {
		return t
	}
	return string(s)
}
