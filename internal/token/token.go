// Package token issues and checks mock join tokens.
//
// A mock token is "mock_" followed by base64 of a JSON payload. It is a
// reversible encoding with no integrity protection and stands in for a
// signed credential.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dkeye/RTCAgent/internal/domain"
)

const (
	Prefix     = "mock_"
	DefaultTTL = int64(3600)
)

var (
	ErrInvalidFormat = errors.New("invalid token format")
	ErrInvalid       = errors.New("invalid token")
	ErrExpired       = errors.New("token expired")
)

// Payload is the decoded token body. Timestamp is Unix ms, ExpireTime seconds.
type Payload struct {
	RoomID     domain.RoomID `json:"roomId"`
	UserID     domain.UserID `json:"userId"`
	Timestamp  int64         `json:"timestamp"`
	ExpireTime int64         `json:"expireTime"`
}

// ExpiresAt is the instant the token stops being valid.
func (p Payload) ExpiresAt() time.Time {
	return time.UnixMilli(p.Timestamp + p.ExpireTime*1000)
}

// Issued is what the token endpoint returns. ExpireTime is Unix ms.
type Issued struct {
	Token      string        `json:"token"`
	RoomID     domain.RoomID `json:"roomId"`
	UserID     domain.UserID `json:"userId"`
	ExpireTime int64         `json:"expireTime"`
}

// Issue builds a mock token valid for ttl seconds from now.
func Issue(room domain.RoomID, user domain.UserID, ttl int64, now time.Time) (Issued, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	p := Payload{
		RoomID:     room,
		UserID:     user,
		Timestamp:  now.UnixMilli(),
		ExpireTime: ttl,
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return Issued{}, err
	}
	return Issued{
		Token:      Prefix + base64.StdEncoding.EncodeToString(raw),
		RoomID:     room,
		UserID:     user,
		ExpireTime: p.Timestamp + ttl*1000,
	}, nil
}

// Decode parses a token without checking expiry.
func Decode(tok string) (Payload, error) {
	if !strings.HasPrefix(tok, Prefix) {
		return Payload{}, ErrInvalidFormat
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(tok, Prefix))
	if err != nil {
		return Payload{}, ErrInvalid
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, ErrInvalid
	}
	return p, nil
}

// Validate decodes tok and rejects it once expired at now.
func Validate(tok string, now time.Time) (Payload, error) {
	p, err := Decode(tok)
	if err != nil {
		return Payload{}, err
	}
	if now.After(p.ExpiresAt()) {
		return p, ErrExpired
	}
	return p, nil
}
