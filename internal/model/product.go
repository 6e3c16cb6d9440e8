package model

// ProductDetails holds fields scraped from a single product page.
//
// All fields except URL are best effort: listing markup changes often, and
// a missing price or seller is not an error. Consumers should treat empty
// strings as "not found".
type ProductDetails struct {
	// URL is the product page URL the details were scraped from.
	URL string `json:"product_url"`

	// Title is the product name.
	Title string `json:"title,omitempty"`

	// Price is the displayed price, kept as text because currency
	// formatting varies per site and locale.
	Price string `json:"price,omitempty"`

	// Seller is the marketplace seller name, when present.
	Seller string `json:"seller,omitempty"`

	// Image is the main product image URL.
	Image string `json:"image,omitempty"`

	// Error is set when the page could not be fetched or parsed.
	// A partial result with Error set still carries the URL so callers
	// can report which product failed.
	Error string `json:"error,omitempty"`
}
