// Package domain holds the Flashly record types and the denormalized views built from them.
package domain

import (
	"slices"
	"time"
)

// Record provides the fields every stored entity carries.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetID returns the record id.
func (r *Record) GetID() string {
	return r.ID
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (r *Record) InitTimestamps(now time.Time) {
	r.CreatedAt = now
	r.UpdatedAt = now
}

// Touch bumps UpdatedAt. Call it whenever the record changes.
func (r *Record) Touch(now time.Time) {
	r.UpdatedAt = now
}

// appendID appends id unless it is already present.
func appendID(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

// removeID removes every occurrence of id and reports whether one was found.
func removeID(ids []string, id string) ([]string, bool) {
	n := len(ids)
	ids = slices.DeleteFunc(ids, func(s string) bool { return s == id })
	return ids, len(ids) != n
}
