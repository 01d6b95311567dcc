package models

// User is a stored account. Password holds whatever the caller stored,
// a bcrypt hash when created through the account service.
type User struct {
	ID       int64
	Username string
	Password string
}

// NewUser is the input to a user store Create. Email is stored but never
// read back.
type NewUser struct {
	Username string
	Password string
	Email    string
}
