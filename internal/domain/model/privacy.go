package model

import "time"

// PrivacySettings defaults to visible and non-selective when no row exists.
type PrivacySettings struct {
	UserID         int64     `json:"user_id"`
	ProfileVisible bool      `json:"profile_visible"`
	SelectiveMode  bool      `json:"selective_mode"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func DefaultPrivacySettings(userID int64) PrivacySettings {
	return PrivacySettings{
		UserID:         userID,
		ProfileVisible: true,
		SelectiveMode:  false,
	}
}
