package models

// Role is a named permission tag from a small fixed enumeration.
type Role struct {
	ID   int64
	Name string
}

// Known role names. An account gets exactly RoleUser at registration when
// the submission names none.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
