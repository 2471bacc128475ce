package domain

import (
	"errors"
	"fmt"
)

type ErrorType string

// Facade error taxonomy.
const (
	ErrInitFailed   ErrorType = "INIT_FAILED"
	ErrJoinFailed   ErrorType = "JOIN_FAILED"
	ErrLeaveFailed  ErrorType = "LEAVE_FAILED"
	ErrStreamFailed ErrorType = "STREAM_FAILED"
	ErrEngine       ErrorType = "ENGINE_ERROR"
	ErrSDK          ErrorType = "SDK_ERROR"
)

// Semantic types recognized by the UI.
const (
	ErrPermissionDenied ErrorType = "PERMISSION_DENIED"
	ErrNetwork          ErrorType = "NETWORK_ERROR"
	ErrTokenExpired     ErrorType = "TOKEN_EXPIRED"
	ErrRoomFull         ErrorType = "ROOM_FULL"
)

// RTCError is the {type, message} pair delivered through the error callback.
type RTCError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

func NewRTCError(t ErrorType, msg string) *RTCError {
	return &RTCError{Type: t, Message: msg}
}

func (e *RTCError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorTypeOf extracts the taxonomy type from err, or "" if none.
func ErrorTypeOf(err error) ErrorType {
	var re *RTCError
	if errors.As(err, &re) {
		return re.Type
	}
	return ""
}
