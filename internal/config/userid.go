package config

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateUserID builds the id used when the user field is left empty.
func (c *Config) GenerateUserID(now time.Time) string {
	if !c.Dev.AutoGenerateUserID {
		return fmt.Sprintf("user_%d", now.UnixMilli())
	}
	b := make([]byte, 9)
	for i := range b {
		b[i] = base36[rand.IntN(len(base36))]
	}
	return "user_" + string(b)
}
