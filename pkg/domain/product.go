package domain

// Product is a single catalog entry.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"` // URL or server-relative path
}
