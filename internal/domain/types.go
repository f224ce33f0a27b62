package domain

import (
	"strings"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Pagination carries paging params for catalogue and admin listings.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Normalize clamps paging to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

// Session is the signed-in (or anonymous) visitor. It is passed explicitly to
// services instead of being looked up from ambient state.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	APIToken  string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// Anonymous reports whether nobody is signed in.
func (s Session) Anonymous() bool {
	return strings.TrimSpace(s.UserID) == ""
}

func (s Session) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(s.Role), RoleAdmin)
}
