package domain

import "time"

type User struct {
	Id           UserId
	Name         string
	Email        Email
	PassHash     string
	Organization string
	CreatedAt    time.Time
}

type Credentials struct {
	Email    Email
	Password Password
}

type Registration struct {
	Name            string
	Email           Email
	Password        Password
	PasswordConfirm Password
	Organization    string
}

type Session struct {
	Token     SessionToken
	UserId    UserId
	ExpiresAt time.Time
	CreatedAt time.Time
}
