package model

import (
	"strings"
	"time"
)

type Post struct {
	ID        int64
	Title     string
	Content   string
	Tags      string
	UserID    int64
	Author    string
	CreatedAt time.Time
}

// TagList splits the free-text tags field into trimmed, non-empty names.
func (p Post) TagList() []string {
	parts := strings.Split(p.Tags, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}
