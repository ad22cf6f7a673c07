package dto

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
