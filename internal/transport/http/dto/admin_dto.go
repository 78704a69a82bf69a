package dto

type AdminUserResponse struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	Banned             bool   `json:"banned"`
	Suspended          bool   `json:"suspended"`
	WarningCount       int    `json:"warning_count"`
	OnboardingComplete bool   `json:"onboarding_complete"`
	CreatedAt          string `json:"created_at"`
}

type AdminUsersResponse struct {
	Items []AdminUserResponse `json:"items"`
}

type AdminWarnRequest struct {
	Message string `json:"message"`
}

type AdminWarnResponse struct {
	OK           bool `json:"ok"`
	WarningCount int  `json:"warning_count"`
}

type AdminAnnounceRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type AdminAnnounceResponse struct {
	OK       bool  `json:"ok"`
	Notified int64 `json:"notified"`
}
