package enums

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)
