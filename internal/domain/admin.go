package domain

type ContextKey string

const AdminContextKey ContextKey = "admin"

// RoleAdmin is the only role allowed on /api/tienda.
const RoleAdmin = "admin"

// Admin is the caller identity carried in the access token.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
