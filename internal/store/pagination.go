package store

import (
	"encoding/base64"
	"encoding/json/v2"
)

// Ordering fields a cursor can belong to. A find call orders by exactly
// one of these, and a cursor minted under one field is meaningless under
// the other.
const (
	OrderByTitle  = "title"
	OrderBySearch = "search_text"
)

// Cursor is the decoded resume point of a keyset-paginated query: the last
// returned row's ordered value plus its document id as the tie-break.
type Cursor struct {
	Field string `json:"f"`
	Value string `json:"v"`
	ID    string `json:"id"`
}

// FindParams contains book query parameters.
type FindParams struct {
	SearchTerm string // raw user input; normalized before use
	PageSize   int    // items per page (defaults to 20, capped at 100)
	PageCursor string // opaque cursor from a previous page, empty for the first
}

// Validate corrects out-of-range paging parameters in place.
func (p *FindParams) Validate() {
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// PaginatedResult contains one page of items and paging metadata.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"` // empty if no more pages
	HasMore    bool   `json:"has_more"`
}

// EncodeCursor serializes a resume point into an opaque token. Callers
// must not interpret the result.
func EncodeCursor(field, value, id string) string {
	data, err := json.Marshal(Cursor{Field: field, Value: value, ID: id})
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor parses an opaque cursor token. It returns nil, never an
// error, for empty, malformed, or unsupported input: a bad cursor means
// "start from the top", not a failed request.
func DecodeCursor(cursor string) *Cursor {
	if cursor == "" {
		return nil
	}
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	if c.Field != OrderByTitle && c.Field != OrderBySearch {
		return nil
	}
	if c.Value == "" || c.ID == "" {
		return nil
	}
	return &c
}
