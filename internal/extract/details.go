package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/reiviji/storescan/internal/model"
)

// ProductDetails parses a product page and pulls out the fields worth
// reporting on: title, price, seller and main image. Missing fields stay
// empty rather than failing the whole page; only unparsable HTML is an
// error.
func ProductDetails(pageURL, html string) (model.ProductDetails, error) {
	details := model.ProductDetails{URL: pageURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return details, fmt.Errorf("failed to parse product page: %w", err)
	}

	details.Title = firstNonEmpty(
		metaContent(doc, "og:title"),
		strings.TrimSpace(doc.Find("h1").First().Text()),
	)

	details.Price = firstNonEmpty(
		metaContent(doc, "product:price:amount"),
		itempropContent(doc, "price"),
		strings.TrimSpace(doc.Find(`[data-testid="product-price"]`).First().Text()),
	)

	details.Seller = firstNonEmpty(
		itempropContent(doc, "seller"),
		strings.TrimSpace(doc.Find(`[data-testid="seller-name"]`).First().Text()),
	)

	details.Image = firstNonEmpty(
		metaContent(doc, "og:image"),
		doc.Find(`img[itemprop="image"]`).First().AttrOr("src", ""),
	)

	return details, nil
}

// metaContent returns the content attribute of the first meta tag whose
// property or name attribute matches the given key.
func metaContent(doc *goquery.Document, key string) string {
	sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)
	return strings.TrimSpace(doc.Find(sel).First().AttrOr("content", ""))
}

// itempropContent reads a schema.org itemprop value, preferring the
// content attribute over the element text.
func itempropContent(doc *goquery.Document, prop string) string {
	node := doc.Find(fmt.Sprintf(`[itemprop=%q]`, prop)).First()
	if v := strings.TrimSpace(node.AttrOr("content", "")); v != "" {
		return v
	}
	return strings.TrimSpace(node.Text())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
