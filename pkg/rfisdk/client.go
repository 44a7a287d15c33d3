// Package rfisdk provides the wire types for the RFI service's HTTP API and
// a small client for calling it from Go.
package rfisdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a running RFI service. The zero value is not usable; use
// NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// AccessToken is the bearer token presented on authenticated calls.
	AccessToken string

	// CompanyID selects the acting company for users with more than one
	// membership. Optional.
	CompanyID string
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do performs a JSON request. A nil in body sends no payload; a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("rfisdk: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("rfisdk: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
		if c.CompanyID != "" {
			req.Header.Set("X-Company-ID", c.CompanyID)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("rfisdk: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "unknown_error"}
		var envelope ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Code != "" {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("rfisdk: decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error) {
	var out ProjectResponse
	err := c.do(ctx, http.MethodPost, "/v1/projects", req, &out, true)
	return out, err
}

func (c *Client) ListProjects(ctx context.Context) (ListProjectsResponse, error) {
	var out ListProjectsResponse
	err := c.do(ctx, http.MethodGet, "/v1/projects", nil, &out, true)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (ProjectResponse, error) {
	var out ProjectResponse
	err := c.do(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(id), nil, &out, true)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) error {
	return c.do(ctx, http.MethodPut, "/v1/projects/"+url.PathEscape(id), req, nil, true)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/projects/"+url.PathEscape(id), nil, nil, true)
}

func (c *Client) CreateRFI(ctx context.Context, projectID string, req CreateRFIRequest) (RFIResponse, error) {
	var out RFIResponse
	err := c.do(ctx, http.MethodPost, "/v1/projects/"+url.PathEscape(projectID)+"/rfis", req, &out, true)
	return out, err
}

func (c *Client) ListProjectRFIs(ctx context.Context, projectID string) (ListRFIsResponse, error) {
	var out ListRFIsResponse
	err := c.do(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(projectID)+"/rfis", nil, &out, true)
	return out, err
}

func (c *Client) GetRFI(ctx context.Context, id string) (RFIResponse, error) {
	var out RFIResponse
	err := c.do(ctx, http.MethodGet, "/v1/rfis/"+url.PathEscape(id), nil, &out, true)
	return out, err
}

func (c *Client) UpdateRFI(ctx context.Context, id string, req UpdateRFIRequest) (RFIResponse, error) {
	var out RFIResponse
	err := c.do(ctx, http.MethodPut, "/v1/rfis/"+url.PathEscape(id), req, &out, true)
	return out, err
}

func (c *Client) DeleteRFI(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/rfis/"+url.PathEscape(id), nil, nil, true)
}

// Transition requests a named workflow action on an RFI.
func (c *Client) Transition(ctx context.Context, id string, req TransitionRequest) (RFIResponse, error) {
	var out RFIResponse
	err := c.do(ctx, http.MethodPost, "/v1/rfis/"+url.PathEscape(id)+"/transition", req, &out, true)
	return out, err
}

func (c *Client) ListRFINotifications(ctx context.Context, id string) (ListNotificationsResponse, error) {
	var out ListNotificationsResponse
	err := c.do(ctx, http.MethodGet, "/v1/rfis/"+url.PathEscape(id)+"/notifications", nil, &out, true)
	return out, err
}

// MintClientLink issues a fresh single-RFI access token. The returned token
// is shown exactly once.
func (c *Client) MintClientLink(ctx context.Context, rfiID string) (ClientLinkResponse, error) {
	var out ClientLinkResponse
	err := c.do(ctx, http.MethodPost, "/v1/rfis/"+url.PathEscape(rfiID)+"/client-link", nil, &out, true)
	return out, err
}

// RevokeClientLinks invalidates every outstanding link for an RFI.
func (c *Client) RevokeClientLinks(ctx context.Context, rfiID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/rfis/"+url.PathEscape(rfiID)+"/client-link", nil, nil, true)
}

// GetClientRFI reads the anonymous portal view for an access token.
func (c *Client) GetClientRFI(ctx context.Context, token string) (ClientRFIResponse, error) {
	var out ClientRFIResponse
	err := c.do(ctx, http.MethodGet, "/v1/client/rfi?token="+url.QueryEscape(token), nil, &out, false)
	return out, err
}

// RespondClientRFI submits the external answer for an access token.
func (c *Client) RespondClientRFI(ctx context.Context, token, response string) (ClientRFIResponse, error) {
	var out ClientRFIResponse
	err := c.do(ctx, http.MethodPost, "/v1/client/rfi/response?token="+url.QueryEscape(token),
		ClientRespondRequest{Response: response}, &out, false)
	return out, err
}

func (c *Client) AddMember(ctx context.Context, companyID string, req AddMemberRequest) (MemberInfo, error) {
	var out MemberInfo
	err := c.do(ctx, http.MethodPost, "/v1/companies/"+url.PathEscape(companyID)+"/members", req, &out, true)
	return out, err
}

func (c *Client) ListMembers(ctx context.Context, companyID string) (ListMembersResponse, error) {
	var out ListMembersResponse
	err := c.do(ctx, http.MethodGet, "/v1/companies/"+url.PathEscape(companyID)+"/members", nil, &out, true)
	return out, err
}
