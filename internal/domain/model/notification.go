package model

import (
	"time"

	"github.com/olegbarkov/amora/internal/domain/enums"
)

type Notification struct {
	ID             int64                  `json:"id"`
	UserID         int64                  `json:"user_id"`
	Type           enums.NotificationType `json:"type"`
	Title          string                 `json:"title"`
	Message        string                 `json:"message"`
	Read           bool                   `json:"read"`
	RelatedUserID  *int64                 `json:"related_user_id,omitempty"`
	RelatedMatchID *int64                 `json:"related_match_id,omitempty"`
	RelatedEventID *int64                 `json:"related_event_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}
