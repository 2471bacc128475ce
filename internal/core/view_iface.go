package core

import "github.com/dkeye/RTCAgent/internal/domain"

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
	NoticeSuccess NoticeLevel = "success"
)

// Notice is a blocking user-visible notification.
type Notice struct {
	Level   NoticeLevel
	Title   string
	Message string
}

// View renders synchronizer state. Implementations must not call back
// into the synchronizer from these methods.
type View interface {
	ShowJoinForm()
	HideJoinForm()
	SetLoading(loading bool)
	SetConnectionStatus(state domain.ConnectionState)
	SetRoomInfo(room domain.RoomID)

	RenderParticipants(local domain.UserID, joined bool, remote []domain.Participant, count int)

	AttachTile(user domain.UserID, handle domain.MediaHandle)
	RemoveTile(user domain.UserID)
	ClearTiles()
	ShowPlaceholder(room domain.RoomID)
	SetLayout(layout domain.Layout)

	SetMicState(on bool)
	SetCameraState(on bool)
	SetScreenShareState(on bool)

	Notify(n Notice)
}
