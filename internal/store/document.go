package store

import (
	"encoding/json/v2"
	"time"

	"github.com/folioapp/folio-server/internal/domain"
	"github.com/folioapp/folio-server/internal/normalize"
)

// bookDocument is the stored shape of a book. The document id is the key
// suffix, not a field. SearchText is the denormalized search key derived
// from Title; it is store-only and never part of the domain record.
type bookDocument struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Authors        []string    `json:"authors"`
	Genres         []string    `json:"genres"`
	Links          []string    `json:"links"`
	CreatedBy      string      `json:"created_by"`
	CreatedAt      epochMillis `json:"created_at"`
	LastModifiedAt epochMillis `json:"last_modified_at"`
	SearchText     string      `json:"search_text"`
}

// epochMillis is an epoch-milliseconds timestamp that tolerates documents
// written by older clients, where the field may be a {seconds, nanos}
// object instead of a plain integer. Unconvertible values decode to zero
// and are replaced with the current time during mapping.
type epochMillis int64

func (m epochMillis) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(m))
}

func (m *epochMillis) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*m = epochMillis(n)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*m = epochMillis(int64(f))
		return nil
	}

	var handle struct {
		Seconds int64 `json:"seconds"`
		Nanos   int64 `json:"nanos"`
	}
	if err := json.Unmarshal(data, &handle); err == nil && (handle.Seconds != 0 || handle.Nanos != 0) {
		*m = epochMillis(handle.Seconds*1000 + handle.Nanos/int64(time.Millisecond))
		return nil
	}

	*m = 0
	return nil
}

// toBook maps a stored document onto the domain record, defaulting the
// list fields and timestamps older or partial documents may lack.
func (d *bookDocument) toBook(bookID, ownerID string) *domain.Book {
	book := &domain.Book{
		ID:             bookID,
		Title:          d.Title,
		Description:    d.Description,
		Authors:        d.Authors,
		Genres:         d.Genres,
		Links:          d.Links,
		CreatedBy:      d.CreatedBy,
		CreatedAt:      int64(d.CreatedAt),
		LastModifiedAt: int64(d.LastModifiedAt),
	}
	if book.Authors == nil {
		book.Authors = []string{}
	}
	if book.Genres == nil {
		book.Genres = []string{}
	}
	if book.Links == nil {
		book.Links = []string{}
	}
	if book.CreatedBy == "" {
		book.CreatedBy = ownerID
	}
	now := time.Now().UnixMilli()
	if book.CreatedAt == 0 {
		book.CreatedAt = now
	}
	if book.LastModifiedAt == 0 {
		book.LastModifiedAt = now
	}
	return book
}

// searchKeyForTitle derives the search key with the non-blank fallback: a
// title that normalizes to nothing still needs a usable range anchor, and
// an empty string would be indistinguishable from an absent field.
func searchKeyForTitle(title string) string {
	key := normalize.SearchText(title)
	if key == "" {
		key = " "
	}
	return key
}
