package document

import (
	"slices"
	"sort"
)

// Span lists held by a Document are always normalized: sorted by Start,
// pairwise disjoint, non-empty, non-zero style, and with touching spans of
// equal style merged. Every helper here takes and returns normalized lists
// and never mutates its input.

// normalize sorts spans and restores the invariants above.
// Input spans must already be pairwise disjoint.
func normalize(spans []Span) []Span {
	out := make([]Span, 0, len(spans))
	for _, sp := range spans {
		if sp.IsEmpty() || sp.Style == StyleNone {
			continue
		}
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	merged := out[:0]
	for _, sp := range out {
		if n := len(merged); n > 0 && merged[n-1].End == sp.Start && merged[n-1].Style == sp.Style {
			merged[n-1].End = sp.End
			continue
		}
		merged = append(merged, sp)
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// styleAt returns the style of the character at offset.
func styleAt(spans []Span, offset int) Style {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].End > offset })
	if i < len(spans) && spans[i].Start <= offset {
		return spans[i].Style
	}
	return StyleNone
}

// paint rewrites the style of every character in r with f.
//
// Cutting at every span boundary plus r's bounds yields segments whose old
// style is uniform and which lie wholly inside or outside r.
func paint(spans []Span, r Range, f func(Style) Style) []Span {
	if r.IsEmpty() {
		return spans
	}

	cuts := make([]int, 0, 2*len(spans)+2)
	cuts = append(cuts, r.Start, r.End)
	for _, sp := range spans {
		cuts = append(cuts, sp.Start, sp.End)
	}
	slices.Sort(cuts)
	cuts = slices.Compact(cuts)

	out := make([]Span, 0, len(spans)+2)
	for i := 0; i+1 < len(cuts); i++ {
		seg := Range{Start: cuts[i], End: cuts[i+1]}
		style := styleAt(spans, seg.Start)
		if seg.Start >= r.Start && seg.End <= r.End {
			style = f(style)
		}
		out = append(out, Span{Range: seg, Style: style})
	}
	return normalize(out)
}

// shiftForInsert moves spans after inserting n characters at offset.
// Text inserted strictly inside a span takes that span's style; text
// inserted at a span boundary is unstyled.
func shiftForInsert(spans []Span, offset, n int) []Span {
	if n == 0 {
		return spans
	}
	out := make([]Span, 0, len(spans))
	for _, sp := range spans {
		switch {
		case sp.End <= offset:
		case sp.Start >= offset:
			sp.Start += n
			sp.End += n
		default:
			sp.End += n
		}
		out = append(out, sp)
	}
	return normalize(out)
}

// shiftForDelete moves spans after removing the characters in r.
func shiftForDelete(spans []Span, r Range) []Span {
	if r.IsEmpty() {
		return spans
	}
	mapPos := func(p int) int {
		switch {
		case p <= r.Start:
			return p
		case p <= r.End:
			return r.Start
		default:
			return p - r.Len()
		}
	}
	out := make([]Span, 0, len(spans))
	for _, sp := range spans {
		sp.Start, sp.End = mapPos(sp.Start), mapPos(sp.End)
		out = append(out, sp)
	}
	return normalize(out)
}
