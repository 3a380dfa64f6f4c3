package models

import "time"

// ContactMessage is the row shape of the contact_messages table.
type ContactMessage struct {
	ID        string    `db:"ID"` // ULID
	Name      string    `db:"NAME"`
	Email     string    `db:"EMAIL"`
	Message   string    `db:"MESSAGE"`
	CreatedAt time.Time `db:"CREATED_AT"`
}

// TableName returns the name of the table for the ContactMessage model.
func (ContactMessage) TableName() string {
	return "contact_messages"
}
