package domain

import "time"

// Company is a tenant. Apart from the app_owner role, no data crosses a
// company boundary.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
