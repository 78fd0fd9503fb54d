// Package event provides types and functions for normalizing scraped hackathon events.
//
// The event package turns raw candidate records into normalized events, decides whether a
// location is Canadian (deriving a two-letter province code when it can), and diffs the
// candidates of a run against the set of event names recorded by a previous run.
package event
