package model

import (
	"time"

	"github.com/olegbarkov/amora/internal/domain/enums"
)

type Profile struct {
	UserID      int64        `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Gender      enums.Gender `json:"gender"`
	LookingFor  []string     `json:"looking_for"`
	Birthdate   *time.Time   `json:"birthdate,omitempty"`
	Bio         string       `json:"bio"`
	City        string       `json:"city"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
