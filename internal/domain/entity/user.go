package entity

import (
	"strings"
	"time"
)

// Role es el nivel (tier) de una cuenta. Enumeración cerrada con precedencia fija:
// SUPER_ADMIN > ADMIN > STAFF. La precedencia solo la usan las reglas de autorización.
type Role string

// Roles válidos para User.
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
)

// Roles lista los roles de mayor a menor privilegio.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleStaff}
}

// ParseRole convierte un string (sin importar mayúsculas) a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid indica si el rol pertenece a la enumeración.
func (r Role) Valid() bool {
	return r.tier() > 0
}

// AtLeast indica si r tiene igual o mayor precedencia que other.
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && r.tier() >= other.tier()
}

// DisplayName nombre legible del rol.
func (r Role) DisplayName() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleAdmin:
		return "Admin"
	case RoleStaff:
		return "Staff"
	}
	return string(r)
}

func (r Role) tier() int {
	switch r {
	case RoleSuperAdmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleStaff:
		return 1
	}
	return 0
}

// User representa una cuenta del sistema.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	PhoneNumber  string // opcional, vacío si no se informa
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
