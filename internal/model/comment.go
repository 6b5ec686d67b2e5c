package model

import "time"

type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Author    string
	Body      string
	CreatedAt time.Time
}
