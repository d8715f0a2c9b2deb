package dto

import "time"

type CreateClientRequest struct {
	Label  string   `json:"label" binding:"required"`
	Scopes []string `json:"scopes"` // empty grants "all"
}

// UpdateClientRequest relabels a client; omitted scopes are kept.
type UpdateClientRequest struct {
	Label  string   `json:"label" binding:"required"`
	Scopes []string `json:"scopes,omitempty"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Scopes    []string  `json:"scopes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientCreateResponse carries the plain secret, returned only on creation.
type ClientCreateResponse struct {
	ClientResponse
	Secret string `json:"secret"`
}

type ClientListResponse struct {
	Items      []ClientResponse `json:"items"`
	Pagination PaginationInfo   `json:"pagination"`
}
