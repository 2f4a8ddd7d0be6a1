// Package duplicates groups near-identical images and decides which copies to
// keep.
package duplicates

import (
	"fmt"
	"sort"

	"github.com/xschemadev/imgdedup/bktree"
	"github.com/xschemadev/imgdedup/hasher"
	"github.com/xschemadev/imgdedup/logger"
)

// Match is a near-duplicate of some image and its Hamming distance to it.
type Match = bktree.Match

// Find maps every image to the other images whose hashes lie within
// threshold of its own. Images without near-duplicates map to an empty
// slice. Matches are ordered by distance, then path.
func Find(hashes map[string]hasher.Hash, threshold int) (map[string][]Match, error) {
	if threshold < 0 || threshold > hasher.Bits {
		return nil, fmt.Errorf("threshold %d out of range [0, %d]", threshold, hasher.Bits)
	}

	paths := make([]string, 0, len(hashes))
	for p := range hashes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var tree bktree.Tree
	for _, p := range paths {
		tree.Add(p, hashes[p])
	}

	result := make(map[string][]Match, len(paths))
	pairs := 0
	for _, p := range paths {
		found := tree.Search(hashes[p], threshold)
		dups := make([]Match, 0, len(found))
		for _, m := range found {
			if m.Key != p {
				dups = append(dups, m)
			}
		}
		result[p] = dups
		pairs += len(dups)
	}

	logger.Debug("duplicate search complete", "images", len(paths), "threshold", threshold, "pairs", pairs/2)
	return result, nil
}
