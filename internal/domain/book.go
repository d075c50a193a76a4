// Package domain contains the core business entities for the Folio portfolio backend.
package domain

import "time"

// Book is a single book record owned by exactly one user.
// Timestamps are epoch milliseconds; LastModifiedAt never precedes CreatedAt.
type Book struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Authors        []string `json:"authors"`
	Genres         []string `json:"genres"`
	Links          []string `json:"links"`
	CreatedBy      string   `json:"created_by"`
	CreatedAt      int64    `json:"created_at"`
	LastModifiedAt int64    `json:"last_modified_at"`
}

// Touch refreshes the modification timestamp.
func (b *Book) Touch() {
	b.LastModifiedAt = time.Now().UnixMilli()
}

// BookPatch is a partial update. Nil fields are left untouched in the
// stored document; a pointer to an empty value overwrites.
type BookPatch struct {
	Title       *string
	Description *string
	Authors     *[]string
	Genres      *[]string
	Links       *[]string
}

// IsEmpty reports whether the patch carries no updatable fields.
// An empty patch is a full no-op: no write, no timestamp refresh.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Authors == nil &&
		p.Genres == nil && p.Links == nil
}
