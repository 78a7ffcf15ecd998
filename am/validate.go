package am

import (
	"unicode/utf8"

	"github.com/teranos/tabix/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Factors: 0 disables a signal, negative is invalid
	if err := c.Factors().Validate(); err != nil {
		return errors.WithHint(err, "rating factors must be >= 0")
	}

	if c.Rating.Parallelism < 0 {
		return errors.Newf("rating.parallelism must be >= 0, got %d", c.Rating.Parallelism)
	}

	// Delimiter: empty means comma
	if c.Table.Delimiter != "" && utf8.RuneCountInString(c.Table.Delimiter) != 1 {
		return errors.NewInvalidRequestError("table.delimiter must be a single character, got %q", c.Table.Delimiter)
	}
	if c.Table.Delimiter == "\n" || c.Table.Delimiter == "\r" || c.Table.Delimiter == "\"" {
		return errors.NewInvalidRequestError("table.delimiter %q is not allowed", c.Table.Delimiter)
	}

	if c.Table.MaxRows < 0 {
		return errors.Newf("table.max_rows must be >= 0, got %d", c.Table.MaxRows)
	}

	if c.Matcher.TimeoutMS < 0 {
		return errors.Newf("matcher.timeout_ms must be >= 0, got %d", c.Matcher.TimeoutMS)
	}
	if c.Matcher.MaxQueriesPerSecond < 0 {
		return errors.Newf("matcher.max_queries_per_second must be >= 0, got %f", c.Matcher.MaxQueriesPerSecond)
	}

	return nil
}
