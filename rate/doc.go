// Package rate picks the subject column of a table bound for triple generation.
//
// Three independent signals score every column:
//
//   - uniqueness: Factors.Unique when no value repeats, else 0
//   - leftness: Factors.Left - i*(Factors.Left/columnCount), integer division
//   - relational match: Factors.ColumnMatch times the number of other columns
//     the Matcher links to the column through a recognized predicate
//
// The Rater runs each signal exactly once, checks that every signal produced one
// score per column, and sums the scores element-wise. Select returns the index of
// the highest composite score; ties go to the leftmost column.
//
// Matcher failures never abort a rating. The failing column contributes 0 to the
// relational signal and the failure is reported as a warn-level Diagnostic.
package rate
