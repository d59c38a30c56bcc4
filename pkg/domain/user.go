package domain

// User roles as issued by the API.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is a registered shop account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the account holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the joint token + user pair representing an authenticated
// identity. A Session value only ever exists as a whole; "no session" is
// expressed by its absence, never by a half-populated value.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
