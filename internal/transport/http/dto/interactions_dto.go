package dto

type InteractionRequest struct {
	TargetID int64  `json:"target_id"`
	Kind     string `json:"kind"`
}

type InteractionResponse struct {
	OK           bool  `json:"ok"`
	MatchCreated bool  `json:"match_created"`
	MatchID      int64 `json:"match_id,omitempty"`
}

type UnlikeRequest struct {
	TargetID int64 `json:"target_id"`
}

type LikedProfileResponse struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	City        string `json:"city,omitempty"`
	Kind        string `json:"kind"`
	LikedAt     string `json:"liked_at"`
}

type LikedProfilesResponse struct {
	Items []LikedProfileResponse `json:"items"`
}
