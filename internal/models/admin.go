package models

import "time"

// Admin is a back-office account.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is what a successful login yields to a client.
type Session struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}
