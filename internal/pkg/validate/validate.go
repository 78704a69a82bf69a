package validate

import (
	"net/mail"
	"strings"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func Email(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

// Password rejects anything shorter than 8 characters.
func Password(value string) bool {
	return len(value) >= 8
}

// OneOf reports whether value matches one of the allowed options,
// case-insensitively.
func OneOf(value string, options ...string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, option := range options {
		if value == strings.ToLower(option) {
			return true
		}
	}
	return false
}
