// Package main provides the entry point for the storescan CLI.
//
// storescan collects retail product links from store listing pages. It
// fetches pages through an external cf-clearance-scraper service, which
// handles the anti-bot challenges the target site puts in front of plain
// HTTP clients.
//
// Usage:
//
//	storescan                  # batch run from the links spreadsheet
//	storescan <url>            # fetch one page and print it
//	storescan serve            # run the HTTP task service
//
// See --help for all available options.
package main

// main is the entry point for storescan.
func main() {
	Execute()
}
