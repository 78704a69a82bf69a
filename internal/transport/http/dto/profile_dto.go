package dto

type ProfileUpdateRequest struct {
	DisplayName string   `json:"display_name"`
	Gender      string   `json:"gender"`
	LookingFor  []string `json:"looking_for"`
	Birthdate   string   `json:"birthdate"`
	Bio         string   `json:"bio"`
	City        string   `json:"city"`
}

type ProfileResponse struct {
	UserID      int64    `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Gender      string   `json:"gender"`
	LookingFor  []string `json:"looking_for"`
	Birthdate   string   `json:"birthdate,omitempty"`
	Bio         string   `json:"bio"`
	City        string   `json:"city"`
}

type PrivacyUpdateRequest struct {
	ProfileVisible bool `json:"profile_visible"`
	SelectiveMode  bool `json:"selective_mode"`
}

type PrivacyResponse struct {
	ProfileVisible bool `json:"profile_visible"`
	SelectiveMode  bool `json:"selective_mode"`
}
