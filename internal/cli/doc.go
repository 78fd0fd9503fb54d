// Package cli implements the command-line interface for mlh-scrape.
//
// The cli package provides the Cobra-based root command. It loads the optional
// YAML config, reads the existing-events file, fetches and parses the listing
// page, keeps new Canadian events, applies the optional filters and sort order,
// and writes the result to stdout as JSON, iCalendar or plain text. Logs go to
// stderr so stdout can be redirected straight into a file.
package cli
