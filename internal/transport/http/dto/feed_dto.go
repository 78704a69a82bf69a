package dto

type FeedItemResponse struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Gender      string `json:"gender"`
	City        string `json:"city,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Age         *int   `json:"age,omitempty"`
}

type FeedResponse struct {
	Items      []FeedItemResponse `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}
