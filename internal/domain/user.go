package domain

import "time"

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
}
