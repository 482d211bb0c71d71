package aggregator

import (
	"github.com/rxtech-lab/argo-vector/internal/types"
)

// Merge restores the caller's order across the result parts of a run of total
// combinations. It returns the results sorted by CombinationID and the IDs in
// [0, total) that have no result. A duplicate ID keeps its first result and
// IDs outside the range are dropped.
func Merge(total int, parts ...[]types.CombinationResult) ([]types.CombinationResult, []int) {
	slots := make([]*types.CombinationResult, total)

	for _, part := range parts {
		for i := range part {
			id := part[i].CombinationID
			if id < 0 || id >= total || slots[id] != nil {
				continue
			}

			slots[id] = &part[i]
		}
	}

	results := make([]types.CombinationResult, 0, total)

	var missing []int

	for id, r := range slots {
		if r == nil {
			missing = append(missing, id)

			continue
		}

		results = append(results, *r)
	}

	return results, missing
}

// Tally counts results by status.
func Tally(results []types.CombinationResult) types.RunStats {
	var stats types.RunStats

	for _, r := range results {
		stats.Add(r)
	}

	return stats
}
