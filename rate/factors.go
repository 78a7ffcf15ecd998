package rate

import "github.com/teranos/tabix/errors"

// Default weighting factors.
const (
	DefaultUniqueFactor      = 10
	DefaultLeftFactor        = 10
	DefaultColumnMatchFactor = 3
)

// Factors are the per-signal weights. They are fixed when a Rater is built.
type Factors struct {
	Unique      int `json:"unique_factor" yaml:"unique_factor"`
	Left        int `json:"left_factor" yaml:"left_factor"`
	ColumnMatch int `json:"column_match_factor" yaml:"column_match_factor"`
}

// DefaultFactors returns {Unique: 10, Left: 10, ColumnMatch: 3}.
func DefaultFactors() Factors {
	return Factors{
		Unique:      DefaultUniqueFactor,
		Left:        DefaultLeftFactor,
		ColumnMatch: DefaultColumnMatchFactor,
	}
}

// Validate rejects negative factors.
func (f Factors) Validate() error {
	if f.Unique < 0 {
		return errors.Wrapf(errors.ErrInvalidFactors, "unique factor must be >= 0, got %d", f.Unique)
	}
	if f.Left < 0 {
		return errors.Wrapf(errors.ErrInvalidFactors, "left factor must be >= 0, got %d", f.Left)
	}
	if f.ColumnMatch < 0 {
		return errors.Wrapf(errors.ErrInvalidFactors, "column match factor must be >= 0, got %d", f.ColumnMatch)
	}
	return nil
}
