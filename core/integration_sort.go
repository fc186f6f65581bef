package core

import (
	"sort"
	"strings"
)

// SortIntegrations returns a sorted copy of list.
//
// Legacy mode orders providers needing attention first, then enabled ones,
// then by display name (case-sensitive). Default mode orders by lower-cased
// display name only. Both are stable.
func SortIntegrations(list []WearableIntegration, legacy bool) []WearableIntegration {
	out := make([]WearableIntegration, len(list))
	copy(out, list)

	keys := make([]string, len(out))
	for i, item := range out {
		if legacy {
			keys[i] = legacySortKey(item)
		} else {
			keys[i] = strings.ToLower(item.DisplayName)
		}
	}

	indexes := make([]int, len(out))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return keys[indexes[a]] < keys[indexes[b]]
	})

	sorted := make([]WearableIntegration, len(out))
	for i, index := range indexes {
		sorted[i] = out[index]
	}
	return sorted
}

// legacySortKey prefixes the name with one character per flag, "0" sorting
// before "1". Both prefixes are fixed width so the comparison falls through
// to the name only when the flags tie.
func legacySortKey(item WearableIntegration) string {
	attention := "1"
	if item.NeedsAttention() {
		attention = "0"
	}
	enabled := "1"
	if item.Enabled {
		enabled = "0"
	}
	return attention + enabled + item.DisplayName
}
