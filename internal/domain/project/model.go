package project

import "time"

// Handle is the opaque address of a deployed component.
type Handle string

// Project is a client's published piece of work open for bids.
type Project struct {
	ID          int64     `json:"project_id" cbor:"1,keyasint"`
	Owner       string    `json:"owner" cbor:"2,keyasint"`
	Title       string    `json:"title" cbor:"3,keyasint"`
	Description string    `json:"description" cbor:"4,keyasint"`
	Skills      string    `json:"skills" cbor:"5,keyasint"`
	PriceLow    int64     `json:"price_low" cbor:"6,keyasint"`
	PriceHigh   int64     `json:"price_high" cbor:"7,keyasint"`
	DueDate     int64     `json:"due_date" cbor:"8,keyasint"`
	CreatedAt   time.Time `json:"created_at" cbor:"9,keyasint"`
	UpdatedAt   time.Time `json:"updated_at" cbor:"10,keyasint"`
}

// ListOptions filters an owner's projects.
type ListOptions struct {
	// Skill matches a single tag of the comma separated skills field, case-insensitively.
	Skill  string
	Limit  int
	Offset int
}
