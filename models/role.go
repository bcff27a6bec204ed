package models

// Roles are a closed set stored as a string column on the user row.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ValidRole reports whether name is one of the known roles.
func ValidRole(name string) bool {
	return name == RoleUser || name == RoleAdmin
}
