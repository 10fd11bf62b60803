package search

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"cliphist/pkg/types"
)

// Result pairs an entry with its display rank. Rank is the entry's 1-based
// position in the traversal, i.e. how many entries back in time it sits. It
// is not a relevance score: results keep recency order, textual relevance
// only filters.
type Result struct {
	Rank  int
	Entry types.Entry
}

// Search scans entries in the given (recency-descending) order and returns
// the matching ones in that same order. With fuzzy off the test is a
// case-insensitive substring match and the empty query matches everything,
// which doubles as "browse history". With fuzzy on, the query characters must
// appear in order, not necessarily contiguous, in the entry text; every
// substring match is also a fuzzy match.
func Search(query string, fuzzyMode bool, entries []types.Entry) []Result {
	folded := strings.ToLower(query)

	var results []Result
	for i, e := range entries {
		if matches(query, folded, fuzzyMode, e.Text) {
			results = append(results, Result{Rank: i + 1, Entry: e})
		}
	}
	return results
}

func matches(query, folded string, fuzzyMode bool, text string) bool {
	// The substring rule applies in both modes, keeping the fuzzy result
	// set a superset of the exact one regardless of the matcher behind it.
	if strings.Contains(strings.ToLower(text), folded) {
		return true
	}
	if !fuzzyMode {
		return false
	}
	return len(fuzzy.Find(query, []string{text})) > 0
}
