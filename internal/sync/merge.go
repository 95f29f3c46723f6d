package sync

import "github.com/tel9980/KVideo/internal/models"

// MergeSources merges incoming sources into existing ones by identity.
//
// Matching entries are updated in place so list order is stable, new entries
// are appended, and nothing is ever removed. The changed flag is false when
// the merge was a no-op, which is what lets a sync round skip its save.
func MergeSources(existing, incoming []models.Source) ([]models.Source, bool) {
	merged := append([]models.Source(nil), existing...)

	index := make(map[string]int, len(merged))
	for i, src := range merged {
		index[src.Identity()] = i
	}

	changed := false
	for _, src := range incoming {
		if src.Validate() != nil {
			continue
		}

		if i, ok := index[src.Identity()]; ok {
			if merged[i] != src {
				merged[i] = src
				changed = true
			}
			continue
		}

		index[src.Identity()] = len(merged)
		merged = append(merged, src)
		changed = true
	}

	return merged, changed
}
