package user

// User is the partial identity view this service stores. The password hash
// never serializes; only the service layer touches it.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Address      string `json:"address,omitempty"`
	PasswordHash string `json:"-"`
}

// AuthenticatedUser is a User plus the bearer token attached to registration
// and login responses.
type AuthenticatedUser struct {
	User
	Token string `json:"token"`
}
