package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// Role vacío = STAFF; Active nil = true.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name" validate:"required,min=1,max=200"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=30"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN STAFF"`
	Active      *bool  `json:"active"`
}

// UpdateUserRequest actualización parcial de una cuenta.
type UpdateUserRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50,alphanum"`
	Email       *string `json:"email" validate:"omitempty,email"`
	FullName    *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
	Role        *string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN STAFF"`
	Active      *bool   `json:"active"`
}

// ChangeRoleRequest body de PATCH /api/users/:id/role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ProfileUpdateRequest autoservicio: el usuario edita sus propios datos de contacto.
type ProfileUpdateRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=30"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FullName        string    `json:"full_name"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	Role            string    `json:"role"`
	RoleDisplayName string    `json:"role_display_name"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserStatsResponse conteos de cuentas por rol y estado.
type UserStatsResponse struct {
	Total       int `json:"total"`
	SuperAdmins int `json:"super_admins"`
	Admins      int `json:"admins"`
	Staff       int `json:"staff"`
	Active      int `json:"active"`
	Inactive    int `json:"inactive"`
}

// ResetPasswordResponse contraseña temporal generada (se muestra una sola vez).
type ResetPasswordResponse struct {
	UserID            string `json:"user_id"`
	TemporaryPassword string `json:"temporary_password"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}
