package model

import "time"

type Photo struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
