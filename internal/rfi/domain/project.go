package domain

import "time"

// Project is a unit of work under a company. The company_id link is set at
// creation and never moves; it is the anchor of the tenant chain for every
// RFI beneath it.
type Project struct {
	ID                string
	CompanyID         string
	Name              string
	ClientCompanyName string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
