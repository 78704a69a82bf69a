package model

import "time"

type Match struct {
	ID            int64      `json:"id"`
	UserAID       int64      `json:"user_a_id"`
	UserBID       int64      `json:"user_b_id"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadA       int        `json:"unread_a"`
	UnreadB       int        `json:"unread_b"`
}
