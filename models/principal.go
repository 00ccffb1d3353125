package models

// Roles supplied by the auth layer.
const (
	RoleCustomer = "customer"
	RoleCaterer  = "caterer"
	RoleAdmin    = "admin"
)

// Principal is the authenticated actor attached to every engine operation
// by the auth middleware. Account management itself lives outside the engine.
type Principal struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
