// internal/links/models.go
package links

import "time"

// Profile is one link-in-bio page, addressed by its slug.
type Profile struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item is one button on a profile page.
type Item struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Icon      string    `json:"icon,omitempty"`
	OrderNum  int       `json:"order_num"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Page is the public response: a profile plus its links in display
// order.
type Page struct {
	Profile Profile `json:"profile"`
	Links   []Item  `json:"links"`
}
