package models

import "time"

const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusResolved = "resolved"
)

func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusResolved:
		return true
	}
	return false
}

type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Phone     string    `json:"phone,omitempty"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactInput struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,min=3,max=100"`
	Message string `json:"message" binding:"required,min=10,max=1000"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
}

type ContactListResponse struct {
	Submissions []ContactSubmission `json:"submissions"`
	TotalCount  int                 `json:"totalCount"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
}

// Customer is the admin-facing view of a storefront profile.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomerListResponse struct {
	Customers  []Customer `json:"customers"`
	TotalCount int        `json:"totalCount"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}
