package extract

import (
	"testing"
)

func TestProductDetails(t *testing.T) {
	t.Parallel()

	t.Run("reads open graph metadata", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
<meta property="og:title" content="Lait demi-écrémé 1L">
<meta property="product:price:amount" content="1.15">
<meta property="og:image" content="https://cdn.example.com/lait.jpg">
</head><body>
<span itemprop="seller">Carrefour</span>
</body></html>`

		d, err := ProductDetails("https://www.carrefour.fr/p/lait-123", html)
		if err != nil {
			t.Fatalf("ProductDetails() error = %v", err)
		}

		if d.URL != "https://www.carrefour.fr/p/lait-123" {
			t.Errorf("URL = %s", d.URL)
		}
		if d.Title != "Lait demi-écrémé 1L" {
			t.Errorf("Title = %s", d.Title)
		}
		if d.Price != "1.15" {
			t.Errorf("Price = %s", d.Price)
		}
		if d.Seller != "Carrefour" {
			t.Errorf("Seller = %s", d.Seller)
		}
		if d.Image != "https://cdn.example.com/lait.jpg" {
			t.Errorf("Image = %s", d.Image)
		}
	})

	t.Run("falls back to h1 and data attributes", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1>  Café moulu 250g  </h1>
<span data-testid="product-price">3,49 €</span>
<span data-testid="seller-name">Maison Torréfaction</span>
</body></html>`

		d, err := ProductDetails("https://www.carrefour.fr/p/cafe-456", html)
		if err != nil {
			t.Fatalf("ProductDetails() error = %v", err)
		}

		if d.Title != "Café moulu 250g" {
			t.Errorf("Title = %q", d.Title)
		}
		if d.Price != "3,49 €" {
			t.Errorf("Price = %q", d.Price)
		}
		if d.Seller != "Maison Torréfaction" {
			t.Errorf("Seller = %q", d.Seller)
		}
	})

	t.Run("missing fields stay empty", func(t *testing.T) {
		t.Parallel()

		d, err := ProductDetails("https://www.carrefour.fr/p/vide-789", `<html><body></body></html>`)
		if err != nil {
			t.Fatalf("ProductDetails() error = %v", err)
		}

		if d.Title != "" || d.Price != "" || d.Seller != "" || d.Image != "" {
			t.Errorf("expected empty fields, got %+v", d)
		}
	})

	t.Run("itemprop content attribute wins over text", func(t *testing.T) {
		t.Parallel()

		html := `<span itemprop="price" content="2.99">2,99 €</span>`
		d, err := ProductDetails("https://www.carrefour.fr/p/prix-000", html)
		if err != nil {
			t.Fatalf("ProductDetails() error = %v", err)
		}
		if d.Price != "2.99" {
			t.Errorf("Price = %q, want 2.99", d.Price)
		}
	})
}
