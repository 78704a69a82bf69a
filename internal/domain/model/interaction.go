package model

import (
	"time"

	"github.com/olegbarkov/amora/internal/domain/enums"
)

type Interaction struct {
	ID         int64                 `json:"id"`
	FromUserID int64                 `json:"from_user_id"`
	ToUserID   int64                 `json:"to_user_id"`
	Kind       enums.InteractionKind `json:"kind"`
	CreatedAt  time.Time             `json:"created_at"`
}
