// internal/gallery/models.go
package gallery

import "time"

// Category splits the gallery between portfolio shots and client logos.
type Category string

const (
	CategoryPortfolio Category = "portfolio"
	CategoryLogo      Category = "logo"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPortfolio, CategoryLogo:
		return true
	}
	return false
}

// Item is one row of the gallery table.
type Item struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	Category  Category  `json:"category"`
	Caption   string    `json:"caption,omitempty"`
	Alt       string    `json:"alt"`
	Order     int       `json:"order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadRequest is one image headed for object storage plus its gallery
// record.
type UploadRequest struct {
	FileName    string
	ContentType string
	Body        []byte
	Category    Category
	Caption     string
	Alt         string
	Order       int
}

// UploadResult mirrors what the admin UI shows per file.
type UploadResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BulkResult aggregates a multi-file upload. Items are processed in
// order and failures never roll back earlier successes.
type BulkResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
