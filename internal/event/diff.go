package event

// SkipReason explains why a candidate did not make it into the output
type SkipReason string

const (
	SkipEmptyName   SkipReason = "empty_name"
	SkipNotCanadian SkipReason = "not_canadian"
	SkipDuplicate   SkipReason = "duplicate"
	SkipKnown       SkipReason = "known"
)

// DiffOptions controls how surviving candidates are built
type DiffOptions struct {
	// FallbackWebsite replaces an empty website; DefaultWebsite when empty
	FallbackWebsite string
}

// DiffResult contains the results of comparing candidates against the existing set
type DiffResult struct {
	NewEvents []*Event
	Provinces map[string][]*Event // new events grouped by province code, "" for unknown
	Skipped   map[SkipReason]int
}

// Diff filters the candidates of a run down to new Canadian events.
// Candidates are visited in extraction order, which the result preserves. A candidate
// is dropped when its name is empty, an earlier candidate had the same normalized
// name (Canadian or not), its location is not Canadian, or the name is in existing.
// A nil existing set behaves as an empty one.
func Diff(existing NameSet, candidates []RawEvent, opts DiffOptions) *DiffResult {
	result := &DiffResult{
		NewEvents: make([]*Event, 0),
		Provinces: make(map[string][]*Event),
		Skipped:   make(map[SkipReason]int),
	}

	seen := make(NameSet)
	for _, raw := range candidates {
		key := NormalizeName(raw.Name)
		if key == "" {
			result.Skipped[SkipEmptyName]++
			continue
		}

		if !seen.Add(key) {
			result.Skipped[SkipDuplicate]++
			continue
		}

		if !IsCanadianLocation(raw.Location) {
			result.Skipped[SkipNotCanadian]++
			continue
		}

		if existing.Contains(key) {
			result.Skipped[SkipKnown]++
			continue
		}

		evt := NewEvent(raw, opts.FallbackWebsite)
		result.NewEvents = append(result.NewEvents, evt)
		result.Provinces[evt.Province] = append(result.Provinces[evt.Province], evt)
	}

	return result
}

