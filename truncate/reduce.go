package truncate

import (
	"fmt"
	"sort"
)

// ReduceLengths takes an ascending-sorted length vector and returns a new
// vector of the same arity whose sum is exactly maxTotal. Removal is taken
// from the longest entries first by leveling them down toward the shorter
// ones, which minimizes the variance of the resulting lengths subject to
// removing exactly sum(lengths) - maxTotal in total.
//
// If sum(lengths) <= maxTotal the input is returned unchanged (as a copy).
// If maxTotal <= 0 every entry is reduced to zero.
//
// The input must be sorted ascending; ErrNotSorted is returned otherwise.
// Use Plan for unsorted input in original order.
func ReduceLengths(lengths []int, maxTotal int) ([]int, error) {
	if len(lengths) > 0 && lengths[0] < 0 {
		return nil, ErrNegativeLength
	}
	if !sort.IntsAreSorted(lengths) {
		return nil, ErrNotSorted
	}

	total := 0
	for _, l := range lengths {
		total += l
	}

	if total <= maxTotal {
		out := make([]int, len(lengths))
		copy(out, lengths)
		return out, nil
	}
	if maxTotal <= 0 {
		return make([]int, len(lengths)), nil
	}

	// Walk the sorted lengths accumulating, for each entry, the cost of
	// raising every remaining entry to that entry's length. The first entry
	// where that running cost exceeds maxTotal is where leveling begins:
	// everything before it is kept, everything from it on is cut down to a
	// common level.
	reduced := make([]int, 0, len(lengths))
	cumsum := 0
	level := 0
	remaining := 0

	for i, length := range lengths {
		remaining = len(lengths) - i
		prev := 0
		if i > 0 {
			prev = lengths[i-1]
		}
		cumsum += (length - prev) * remaining

		if cumsum > maxTotal {
			// Ceil-divide the overshoot across the remaining entries.
			over := cumsum - maxTotal
			perEntry := (over + remaining - 1) / remaining
			level = length - perEntry
			break
		}
		reduced = append(reduced, length)
	}

	for j := 0; j < remaining; j++ {
		reduced = append(reduced, level)
	}

	// The ceil-divide may have removed more than necessary; give the excess
	// back one token at a time to the longest entries.
	sum := 0
	for _, l := range reduced {
		sum += l
	}
	diff := maxTotal - sum
	if diff < 0 || diff > remaining {
		return nil, fmt.Errorf("truncate: leveling overshot by %d: %w", -diff, ErrInexactReduction)
	}
	for j := len(reduced) - diff; j < len(reduced); j++ {
		reduced[j]++
	}

	sum = 0
	for _, l := range reduced {
		sum += l
	}
	if sum != maxTotal {
		return nil, fmt.Errorf("truncate: reduced sum %d != %d: %w", sum, maxTotal, ErrInexactReduction)
	}
	return reduced, nil
}

// Plan computes how many tokens to strip from each segment so that exactly
// toRemove tokens are removed in total. The plan has the same arity and
// order as lengths, never contains a negative entry, and plan[i] never
// exceeds lengths[i].
//
// If toRemove <= 0 the plan is all zeros. If toRemove >= sum(lengths) every
// segment is reduced to zero and the unsatisfiable remainder is returned as
// shortfall; otherwise shortfall is zero and sum(plan) == toRemove exactly.
func Plan(lengths []int, toRemove int) (plan []int, shortfall int, err error) {
	plan = make([]int, len(lengths))

	total := 0
	for _, l := range lengths {
		if l < 0 {
			return nil, 0, ErrNegativeLength
		}
		total += l
	}

	if toRemove <= 0 {
		return plan, 0, nil
	}
	if toRemove >= total {
		copy(plan, lengths)
		return plan, toRemove - total, nil
	}

	// Level the lengths in ascending order, keeping the original position of
	// every entry so the plan can be mapped back. The stable sort preserves
	// relative order among equal lengths.
	idx := make([]int, len(lengths))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lengths[idx[a]] < lengths[idx[b]]
	})

	sorted := make([]int, len(lengths))
	for k, i := range idx {
		sorted[k] = lengths[i]
	}

	reduced, err := ReduceLengths(sorted, total-toRemove)
	if err != nil {
		return nil, 0, err
	}

	for k, i := range idx {
		plan[i] = sorted[k] - reduced[k]
	}
	return plan, 0, nil
}
