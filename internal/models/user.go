package models

import (
	"time"
)

// User is a row of the users table as read back by the store. The password
// column is only ever compared in SQL and never loaded into memory.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
