package ui

import (
	"context"

	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/rs/zerolog/log"
)

type errorRoute struct {
	notice     core.Notice
	forceLeave bool
}

var semanticErrors = map[domain.ErrorType]errorRoute{
	domain.ErrPermissionDenied: {notice: core.Notice{
		Level:   core.NoticeWarning,
		Title:   "Camera/Microphone Access Denied",
		Message: "Please allow camera and microphone access to use video calling features.",
	}},
	domain.ErrNetwork: {notice: core.Notice{
		Level:   core.NoticeError,
		Title:   "Network Connection Error",
		Message: "Please check your internet connection and try again.",
	}},
	domain.ErrTokenExpired: {
		notice: core.Notice{
			Level:   core.NoticeWarning,
			Title:   "Session Expired",
			Message: "Your session has expired. Please rejoin the room.",
		},
		forceLeave: true,
	},
	domain.ErrRoomFull: {notice: core.Notice{
		Level:   core.NoticeError,
		Title:   "Room Full",
		Message: "The room has reached its maximum capacity. Please try again later.",
	}},
}

// HandleError maps an error callback to a notification. Join and init
// failures are reported by HandleJoin itself and only logged here.
func (s *Synchronizer) HandleError(e domain.RTCError) {
	log.Error().Str("module", "ui").Str("type", string(e.Type)).Str("message", e.Message).Msg("rtc error")

	if route, ok := semanticErrors[e.Type]; ok {
		s.view.Notify(route.notice)
		if route.forceLeave {
			s.forceLeave()
		}
		return
	}

	switch e.Type {
	case domain.ErrJoinFailed, domain.ErrInitFailed:
		return
	case domain.ErrLeaveFailed:
		s.view.Notify(core.Notice{Level: core.NoticeWarning, Title: "Leave Error", Message: e.Message})
		return
	}

	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	s.view.Notify(core.Notice{Level: core.NoticeError, Title: "Connection Error", Message: "An error occurred: " + msg})
	s.view.SetConnectionStatus(domain.StateFailed)
}

// forceLeave runs on its own goroutine: the error may be delivered while
// the facade is still inside a join.
func (s *Synchronizer) forceLeave() {
	s.leaves.Add(1)
	go func() {
		defer s.leaves.Done()
		s.HandleLeave(context.Background())
	}()
}
