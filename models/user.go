package models

import "time"

// Roles recognised by the platform. A user's role is fixed at
// registration; there is no role-change endpoint.
const (
	RoleCustomer = "customer"
	RoleCaterer  = "caterer"
	RoleAdmin    = "admin"
)

// ValidRole reports whether role is one of the recognised roles.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleCaterer || role == RoleAdmin
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"password_hash"`
	Role      string    `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
