package collection

// Stats summarises what a Patch call changed.
type Stats struct {
	Added   int
	Updated int
	Removed int
}

// Changed reports whether the patch added or removed anything.
func (s Stats) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// Merge adds other's counters to s.
func (s Stats) Merge(other Stats) Stats {
	return Stats{
		Added:   s.Added + other.Added,
		Updated: s.Updated + other.Updated,
		Removed: s.Removed + other.Removed,
	}
}

// Patch synchronises target with source and returns the resulting slice.
//
// Elements are matched by key. A matched target element stays in its slot
// and receives patch(source, target); source elements with an unseen key are
// appended in source order; target elements left unmatched are dropped.
// Elements whose key is the zero K never match anything. When source holds
// the same key twice, the later element is patched onto the first.
//
// Runs in O(len(target)+len(source)).
func Patch[T any, K comparable](target, source []T, key func(T) K, patch func(source, target T)) ([]T, Stats) {
	var zero K

	index := make(map[K]int, len(target))
	for i, t := range target {
		k := key(t)
		if k == zero {
			continue
		}
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}

	matched := make([]bool, len(target))
	seen := make(map[K]T, len(source))
	var added []T
	var stats Stats

	for _, s := range source {
		k := key(s)
		if k == zero {
			added = append(added, s)
			stats.Added++
			continue
		}
		if first, ok := seen[k]; ok {
			patch(s, first)
			continue
		}
		if i, ok := index[k]; ok {
			matched[i] = true
			seen[k] = target[i]
			patch(s, target[i])
			stats.Updated++
			continue
		}
		seen[k] = s
		added = append(added, s)
		stats.Added++
	}

	result := make([]T, 0, len(target)+len(added))
	for i, t := range target {
		if matched[i] {
			result = append(result, t)
			continue
		}
		stats.Removed++
	}
	result = append(result, added...)

	return result, stats
}
