package dto

type SendMessageRequest struct {
	Body string `json:"body"`
}

type MessageResponse struct {
	ID           int64  `json:"id"`
	MatchID      int64  `json:"match_id"`
	SenderUserID int64  `json:"sender_user_id"`
	Body         string `json:"body"`
	Read         bool   `json:"read"`
	CreatedAt    string `json:"created_at"`
}

type MessagesResponse struct {
	Items []MessageResponse `json:"items"`
}

type MarkReadResponse struct {
	OK         bool  `json:"ok"`
	MarkedRead int64 `json:"marked_read"`
}
