package model

import "time"

type Message struct {
	ID           int64     `json:"id"`
	MatchID      int64     `json:"match_id"`
	SenderUserID int64     `json:"sender_user_id"`
	Body         string    `json:"body"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}
