package entity

// Role names form a small closed set. Users hold roles through the
// user_roles join table; a user without any role cannot authenticate.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

type Role struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null;uniqueIndex;size:32"`
}
