// Package extract pulls product URLs out of listing page HTML and product
// details out of product page HTML.
//
// Link extraction is deliberately pattern-based rather than DOM-based:
// listing pages arrive as rendered source from the clearance service, and
// the product links follow a rigid per-site URL shape. The pattern and the
// base URL used to resolve relative links are configuration, with defaults
// for Carrefour.
package extract
