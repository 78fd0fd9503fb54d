// Package scraper extracts candidate hackathon records from the rendered listing page.
//
// The page is fetched through an engine.Engine and parsed with goquery. Three strategies
// run in order and the first one that yields records wins: event cards matched by CSS
// selectors, the Next.js __NEXT_DATA__ payload, and finally a text scan that anchors on
// month/day dates and looks for a "City, Province" line nearby. All of them are tied to
// the current markup of one site; when it changes they return fewer or no records.
package scraper
