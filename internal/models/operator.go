package models

import "time"

// Role is the operator's role. It is carried on the session but never
// consulted for authorization: any authenticated operator may perform any
// operation.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Operator is an authenticated user of the system. The password hash never
// leaves the repository layer.
type Operator struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the credential pair presented at /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for /auth/register. New operators start as
// active regular users.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the operator profile.
type LoginResponse struct {
	Token    string   `json:"token"`
	Operator Operator `json:"operator"`
}
