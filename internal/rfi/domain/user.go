package domain

import "time"

// User is a person with a login at the external identity provider. The
// provider owns authentication; this service only stores the directory entry.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
