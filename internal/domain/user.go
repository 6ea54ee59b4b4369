package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleAttendant  UserRole = "attendant"
)

type User struct {
	ID           string    `json:"id"`
	TenantID     *string   `json:"tenant_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Claims é o conteúdo do token do chamador. A emissão do token acontece fora
// desta API, aqui ele é apenas validado.
type Claims struct {
	UserID      string   `json:"user_id"`
	UserName    string   `json:"user_name"`
	TenantID    string   `json:"tenant_id,omitempty"`
	Role        UserRole `json:"role"`
	AttendantID *string  `json:"attendant_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) IsSuperAdmin() bool {
	return c.Role == RoleSuperAdmin
}

func (c *Claims) IsAttendant() bool {
	return c.Role == RoleAttendant
}
