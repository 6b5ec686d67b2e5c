package model

import "time"

type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
