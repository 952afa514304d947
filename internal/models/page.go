package models

import "fmt"

// PageRequest is a contiguous half-open range [Offset, Offset+Limit) of item indices
type PageRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NewPageRequest creates a page request starting at offset
func NewPageRequest(offset, limit int) PageRequest {
	return PageRequest{Offset: offset, Limit: limit}
}

// End returns the exclusive upper bound of the range
func (r PageRequest) End() int {
	return r.Offset + r.Limit
}

// Next returns the request following this one after received items were appended
func (r PageRequest) Next(received int) PageRequest {
	return PageRequest{Offset: r.Offset + received, Limit: r.Limit}
}

// RangeError names the field that makes a page request unusable
type RangeError struct {
	Field string
	Value int
}

func (e *RangeError) Error() string {
	if e.Field == "offset" {
		return fmt.Sprintf("offset must be >= 0, got %d", e.Value)
	}
	return fmt.Sprintf("%s must be > 0, got %d", e.Field, e.Value)
}

// Validate reports the first field that makes the request unusable as a
// *RangeError
func (r PageRequest) Validate() error {
	if r.Offset < 0 {
		return &RangeError{Field: "offset", Value: r.Offset}
	}
	if r.Limit <= 0 {
		return &RangeError{Field: "limit", Value: r.Limit}
	}
	return nil
}

func (r PageRequest) String() string {
	return fmt.Sprintf("[%d, %d)", r.Offset, r.End())
}

// Page is the result of a page request: the items in receipt order
type Page struct {
	Request PageRequest `json:"request"`
	Items   []string    `json:"items"`
}

// Len returns the number of received items
func (p Page) Len() int {
	return len(p.Items)
}

// IsEmpty reports whether the page carried no items
func (p Page) IsEmpty() bool {
	return len(p.Items) == 0
}

// IsShort reports whether fewer items than requested were returned.
// A short page hints at the end of the data but is not treated as final.
func (p Page) IsShort() bool {
	return len(p.Items) < p.Request.Limit
}
