package domain

import "time"

// Account is an identity record created at registration.
type Account struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
