package document

import (
	"fmt"

	"github.com/hpungsan/jot/internal/errors"
)

// Range is a half-open character interval [Start, End), counted in runes.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewRange creates a Range from start and end offsets.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Len returns the number of characters in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if the two ranges share at least one character.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Check returns a RANGE_ERROR unless 0 <= Start <= End <= length.
func (r Range) Check(length int) error {
	if r.Start < 0 || r.End < r.Start || r.End > length {
		return errors.NewRange(r.Start, r.End, length)
	}
	return nil
}

// Span is a range of characters carrying a set of formatting flags.
type Span struct {
	Range
	Style Style `json:"style"`
}

// String returns the range followed by its style, e.g. "[0,5) bold+italic".
func (s Span) String() string {
	return s.Range.String() + " " + s.Style.String()
}
