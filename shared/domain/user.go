package domain

import "time"

// User is the authentication identity. The donor attributes live in Profile.
type User struct {
	Id        UserId
	Email     Email
	PassHash  string
	Admin     bool
	CreatedAt time.Time
}

type Credentials struct {
	Email    Email
	Password Password
}
