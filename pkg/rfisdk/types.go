package rfisdk

import "time"

// ErrorResponse is the uniform error envelope every endpoint returns on
// failure.
type ErrorResponse struct {
	// Code is the machine-readable error code (e.g. "not_found", "conflict")
	Code string `json:"code"`

	// Message is a human-readable description of the error
	Message string `json:"message"`
}

// HealthChecks reports the state of each critical dependency.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// CompanyResponse is the wire form of a tenant.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCompanyRequest provisions a new tenant (operator only).
type CreateCompanyRequest struct {
	Name string `json:"name"`
}

// UpdateCompanyRequest renames a tenant.
type UpdateCompanyRequest struct {
	Name string `json:"name"`
}

// MemberInfo is one row of a company member listing.
type MemberInfo struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// ListMembersResponse wraps a company member listing.
type ListMembersResponse struct {
	Members []MemberInfo `json:"members"`
}

// AddMemberRequest binds a (possibly new) user to the company.
type AddMemberRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// UpdateMemberRoleRequest changes an existing member's role.
type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

// ProjectResponse is the wire form of a project.
type ProjectResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ClientCompanyName string    `json:"client_company_name,omitempty"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateProjectRequest creates a project in the caller's company.
type CreateProjectRequest struct {
	Name              string `json:"name"`
	ClientCompanyName string `json:"client_company_name,omitempty"`
}

// UpdateProjectRequest edits a project's descriptive fields.
type UpdateProjectRequest struct {
	Name              string `json:"name"`
	ClientCompanyName string `json:"client_company_name,omitempty"`
}

// ListProjectsResponse wraps a project listing.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// RFIResponse is the wire form of an RFI. Overdue is derived server-side at
// read time.
type RFIResponse struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	Subject      string     `json:"subject"`
	Question     string     `json:"question"`
	Status       string     `json:"status"`
	Stage        string     `json:"stage"`
	Overdue      bool       `json:"overdue"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Response     string     `json:"response,omitempty"`
	ResponseDate *time.Time `json:"response_date,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateRFIRequest opens a new draft under a project.
type CreateRFIRequest struct {
	Subject  string `json:"subject"`
	Question string `json:"question"`
}

// UpdateRFIRequest edits a draft or active RFI's content.
type UpdateRFIRequest struct {
	Subject  string `json:"subject"`
	Question string `json:"question"`
}

// ListRFIsResponse wraps an RFI listing.
type ListRFIsResponse struct {
	RFIs []RFIResponse `json:"rfis"`
}

// TransitionRequest asks for a named workflow action. The auxiliary fields
// apply only to the actions that accept them.
type TransitionRequest struct {
	Action     string     `json:"action"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	Response   string     `json:"response,omitempty"`
}

// ClientLinkResponse is returned once, at mint time. The token never
// reappears.
type ClientLinkResponse struct {
	Token     string    `json:"token"`
	RFIID     string    `json:"rfi_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ClientRFIResponse is the anonymous portal's view of an RFI: the question
// and its answer, nothing about the owning company.
type ClientRFIResponse struct {
	ID           string     `json:"id"`
	Subject      string     `json:"subject"`
	Question     string     `json:"question"`
	Status       string     `json:"status"`
	Stage        string     `json:"stage"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Response     string     `json:"response,omitempty"`
	ResponseDate *time.Time `json:"response_date,omitempty"`
}

// ClientRespondRequest carries the external responder's answer.
type ClientRespondRequest struct {
	Response string `json:"response"`
}

// NotificationInfo is one entry in an RFI's event history.
type NotificationInfo struct {
	ID              string    `json:"id"`
	RFIID           string    `json:"rfi_id"`
	Type            string    `json:"type"`
	PerformedBy     string    `json:"performed_by"`
	PerformedByType string    `json:"performed_by_type"`
	FromStatus      string    `json:"from_status"`
	ToStatus        string    `json:"to_status"`
	Reason          string    `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListNotificationsResponse wraps an RFI's event history.
type ListNotificationsResponse struct {
	Notifications []NotificationInfo `json:"notifications"`
}
