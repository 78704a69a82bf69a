package dto

type MatchResponse struct {
	MatchID       int64  `json:"match_id"`
	UserID        int64  `json:"user_id"`
	DisplayName   string `json:"display_name"`
	City          string `json:"city,omitempty"`
	CreatedAt     string `json:"created_at"`
	LastMessageAt string `json:"last_message_at,omitempty"`
	Unread        int    `json:"unread"`
}

type MatchesResponse struct {
	Items []MatchResponse `json:"items"`
}

type UnmatchRequest struct {
	TargetID int64 `json:"target_id"`
}

type BlockRequest struct {
	TargetID int64  `json:"target_id"`
	Reason   string `json:"reason"`
}

type UnblockRequest struct {
	TargetID int64 `json:"target_id"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
