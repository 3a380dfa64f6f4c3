package models

import (
	"database/sql"
	"time"
)

// User represents a user in the system.
type User struct {
	ID              string         `db:"ID"` // ULID
	Email           string         `db:"EMAIL"`
	Name            sql.NullString `db:"NAME"`
	PasswordHash    string         `db:"PASSWORD_HASH"` // bcrypt
	GenerationLimit int            `db:"GENERATION_LIMIT"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
	UpdatedAt       time.Time      `db:"UPDATED_AT"`
}

// TableName returns the name of the table for the User model.
func (User) TableName() string {
	return "users"
}
