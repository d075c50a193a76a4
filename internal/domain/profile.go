package domain

// Profile is the portfolio owner's public profile document.
type Profile struct {
	DisplayName string   `json:"display_name"`
	Headline    string   `json:"headline,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Links       []string `json:"links,omitempty"`
	UpdatedAt   int64    `json:"updated_at"`
}
