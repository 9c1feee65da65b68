package entity

import "time"

// User usuario administrativo de la aplicación.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
