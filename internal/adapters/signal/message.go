package signal

// Message is every frame exchanged with the signaling server. Only the
// fields relevant to Type are set.
type Message struct {
	Type string `json:"type"`

	Room  string `json:"room,omitempty"`
	Name  string `json:"name,omitempty"`
	Token string `json:"token,omitempty"`
	AppID string `json:"app_id,omitempty"`

	SDP string `json:"sdp,omitempty"`

	Candidate     string  `json:"candidate,omitempty"`
	SDPMid        string  `json:"sdpMid,omitempty"`
	SDPMLineIndex *uint16 `json:"sdpMLineIndex,omitempty"`

	Members []Member `json:"members,omitempty"`
	Count   int      `json:"count,omitempty"`
	User    *Member  `json:"user,omitempty"`

	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type Member struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

const (
	TypeJoin      = "join"
	TypeLeave     = "leave"
	TypePing      = "ping"
	TypeOffer     = "offer"
	TypeAnswer    = "answer"
	TypeCandidate = "candidate"

	TypeRoomState    = "room_state"
	TypeMemberJoined = "member_joined"
	TypeMemberLeft   = "member_left"
	TypeLeft         = "left"
	TypePong         = "pong"
	TypeError        = "error"
)

// Server error codes with a dedicated error type.
const (
	CodeRoomFull         = "room_full"
	CodeTokenExpired     = "token_expired"
	CodePermissionDenied = "permission_denied"
)
