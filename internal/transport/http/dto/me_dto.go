package dto

type MeResponse struct {
	ID                  int64  `json:"id"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	OnboardingComplete  bool   `json:"onboarding_complete"`
	UnreadNotifications int    `json:"unread_notifications"`
}
