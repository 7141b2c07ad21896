package domain

import "strings"

// Role values returned by the backend for User.Role.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered bank customer as returned by the backend.
type User struct {
	ID            int64   `json:"id"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Email         string  `json:"email"`
	Role          string  `json:"role,omitempty"`
	AccountNumber string  `json:"accountNumber,omitempty"`
	Balance       float64 `json:"balance,omitempty"`
	PhoneNumber   string  `json:"phoneNumber,omitempty"`
	Address       string  `json:"address,omitempty"`
	Status        string  `json:"status,omitempty"`
	HasPin        bool    `json:"hasPin,omitempty"`
}

// FullName returns "First Last", tolerating empty parts.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user may see the admin panel.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// MaskAccountNumber hides all but the last four characters of an account
// number, e.g. "••••3912". Short values are returned unchanged.
func MaskAccountNumber(n string) string {
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("•", 4) + n[len(n)-4:]
}
