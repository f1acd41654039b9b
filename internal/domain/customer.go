package domain

import "time"

// CustomerAddress stores address fields returned to clients.
type CustomerAddress struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Country    string `json:"country,omitempty"`
	StreetName string `json:"streetName,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	City       string `json:"city,omitempty"`
}

// Customer represents a registered shopper or admin account.
type Customer struct {
	ID                       string            `json:"id"`
	Email                    string            `json:"email"`
	PasswordHash             string            `json:"-"`
	FirstName                string            `json:"firstName,omitempty"`
	LastName                 string            `json:"lastName,omitempty"`
	Role                     string            `json:"role"`
	Addresses                []CustomerAddress `json:"addresses,omitempty"`
	DefaultShippingAddressID string            `json:"defaultShippingAddressId,omitempty"`
	CreatedAt                time.Time         `json:"createdAt"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
