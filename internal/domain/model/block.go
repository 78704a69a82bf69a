package model

import "time"

type Block struct {
	ActorUserID  int64     `json:"actor_user_id"`
	TargetUserID int64     `json:"target_user_id"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}
