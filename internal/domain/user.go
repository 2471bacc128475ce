// Package domain contains entities without transport logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserIDLen = 64
	MaxRoomIDLen = 64
)

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
	ErrRoomIDEmpty   = errors.New("room id empty")
	ErrRoomIDTooLong = errors.New("room id too long")
)

type UserID string

// NewUserID trims the raw input and checks it is usable as a user id.
func NewUserID(raw string) (UserID, error) {
	s := strings.TrimSpace(raw)
	if len(s) == 0 {
		return "", ErrUserIDEmpty
	}
	if len(s) > MaxUserIDLen {
		return "", ErrUserIDTooLong
	}
	return UserID(s), nil
}

// Participant is a remote member of the current room.
type Participant struct {
	UserID      UserID `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Label is the text shown for a participant in lists and tiles.
func (p Participant) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return string(p.UserID)
}
