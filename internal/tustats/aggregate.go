package tustats

import "sort"

// DefaultTopIncludes is the ranking bound used when callers have no
// configured override.
const DefaultTopIncludes = 10

// includeGroup accumulates contributions for one path prefix.
type includeGroup struct {
	prefix string
	count  int
	lines  int64
}

// TopIncludes reduces per-file include contributions into two bounded
// rankings: the top n prefixes by file count and the top n by cumulative
// size. Ties are broken by first-seen order, so output is deterministic for
// a given input order. Empty input yields two empty rankings.
func TopIncludes(contribs []IncludeContribution, n int) (byCount, bySize []IncludeStats) {
	if n <= 0 {
		n = DefaultTopIncludes
	}

	// Group by prefix, preserving first-seen order for stable ties.
	index := make(map[string]int, len(contribs))
	groups := make([]includeGroup, 0, len(contribs))

	for _, contrib := range contribs {
		pos, seen := index[contrib.PathPrefix]
		if !seen {
			pos = len(groups)
			index[contrib.PathPrefix] = pos

			groups = append(groups, includeGroup{prefix: contrib.PathPrefix})
		}

		groups[pos].count++
		groups[pos].lines += contrib.SizeBytes
	}

	byCount = rankGroups(groups, n, func(a, b includeGroup) bool {
		return a.count > b.count
	})

	bySize = rankGroups(groups, n, func(a, b includeGroup) bool {
		return a.lines > b.lines
	})

	return byCount, bySize
}

// rankGroups sorts a copy of groups with the given strict ordering and keeps
// the first n entries.
func rankGroups(groups []includeGroup, n int, less func(a, b includeGroup) bool) []IncludeStats {
	ranked := make([]includeGroup, len(groups))
	copy(ranked, groups)

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	stats := make([]IncludeStats, 0, len(ranked))
	for _, group := range ranked {
		stats = append(stats, IncludeStats{
			PathPrefix: group.prefix,
			Count:      group.count,
			Lines:      group.lines,
		})
	}

	return stats
}
