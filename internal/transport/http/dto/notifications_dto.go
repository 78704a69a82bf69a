package dto

type NotificationResponse struct {
	ID             int64  `json:"id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Read           bool   `json:"read"`
	RelatedUserID  *int64 `json:"related_user_id,omitempty"`
	RelatedMatchID *int64 `json:"related_match_id,omitempty"`
	RelatedEventID *int64 `json:"related_event_id,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type NotificationsResponse struct {
	Items []NotificationResponse `json:"items"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

type MarkAllReadResponse struct {
	OK         bool  `json:"ok"`
	MarkedRead int64 `json:"marked_read"`
}
