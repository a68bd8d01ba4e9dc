package domain

import "time"

// User is a registered credential holder. PasswordHash never leaves the
// service boundary.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the identity asserted by a verified token.
type Principal struct {
	ID       int64
	Username string
}

// Session is the result of a successful login.
type Session struct {
	Token  string
	UserID int64
}
