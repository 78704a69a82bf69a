package model

import (
	"time"

	"github.com/olegbarkov/amora/internal/domain/enums"
)

type User struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	Role               enums.Role `json:"role"`
	Banned             bool       `json:"banned"`
	Suspended          bool       `json:"suspended"`
	WarningCount       int        `json:"warning_count"`
	OnboardingComplete bool       `json:"onboarding_complete"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
