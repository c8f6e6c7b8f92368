package model

import "time"

// User is a form owner. Accounts are provisioned by the external auth
// collaborator; this service only reads them.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
