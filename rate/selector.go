package rate

import "github.com/teranos/tabix/errors"

// Select returns the index of the highest composite score.
// The first maximum wins, so ties go to the leftmost column.
func Select(composite Scores) (int, error) {
	if len(composite) == 0 {
		return 0, errors.Wrap(errors.ErrEmptyTable, "no composite scores to select from")
	}

	best := 0
	for i := 1; i < len(composite); i++ {
		if composite[i] > composite[best] {
			best = i
		}
	}
	return best, nil
}
