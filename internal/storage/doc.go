// Package storage reads and updates the existing-events file.
//
// The file holds the output of a previous run, {"events": [...]}. Only the
// name of each entry is needed to skip already-known events; when the file is
// updated, entries and top-level keys this package does not understand are
// written back unchanged.
package storage
