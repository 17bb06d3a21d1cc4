// Package document holds the in-memory model of an open file: a rune buffer
// plus normalized style spans. Styles live only in memory; the file on disk
// is always plain UTF-8 text.
package document

import (
	"slices"
	"unicode/utf8"

	"github.com/hpungsan/jot/internal/errors"
)

// Document is the editable contents of one file. It is bound to a single
// path for its lifetime and is not safe for concurrent use.
type Document struct {
	path  string
	text  []rune
	spans []Span
	hist  history
}

// Segment is a maximal run of text sharing one style.
type Segment struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// New creates a document bound to path holding text, with no styles.
// historyDepth bounds the undo stack; 0 disables undo.
func New(path, text string, historyDepth int) *Document {
	return &Document{
		path: path,
		text: []rune(text),
		hist: history{depth: historyDepth},
	}
}

// Path returns the file path the document is bound to.
func (d *Document) Path() string { return d.path }

// Text returns the buffer contents.
func (d *Document) Text() string { return string(d.text) }

// Len returns the buffer length in characters.
func (d *Document) Len() int { return len(d.text) }

// Spans returns a copy of the normalized style spans.
func (d *Document) Spans() []Span {
	return slices.Clone(d.spans)
}

// StyleAt returns the style of the character at offset, or StyleNone when
// offset is outside the buffer.
func (d *Document) StyleAt(offset int) Style {
	return styleAt(d.spans, offset)
}

// Segments splits the buffer into styled runs, in order, covering all text.
func (d *Document) Segments() []Segment {
	segs := make([]Segment, 0, 2*len(d.spans)+1)
	pos := 0
	for _, sp := range d.spans {
		if sp.Start > pos {
			segs = append(segs, Segment{Text: string(d.text[pos:sp.Start])})
		}
		segs = append(segs, Segment{Text: string(d.text[sp.Start:sp.End]), Style: sp.Style})
		pos = sp.End
	}
	if pos < len(d.text) {
		segs = append(segs, Segment{Text: string(d.text[pos:])})
	}
	return segs
}

// ApplyStyle adds style to every character in r, keeping any flags already
// set. Applying the same style twice is the same as applying it once.
func (d *Document) ApplyStyle(r Range, style Style) error {
	if err := r.Check(len(d.text)); err != nil {
		return err
	}
	d.setSpans(paint(d.spans, r, func(s Style) Style { return s.With(style) }))
	return nil
}

// RemoveStyle clears style from every character in r.
func (d *Document) RemoveStyle(r Range, style Style) error {
	if err := r.Check(len(d.text)); err != nil {
		return err
	}
	d.setSpans(paint(d.spans, r, func(s Style) Style { return s.Without(style) }))
	return nil
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) error {
	return d.Replace(Range{Start: offset, End: offset}, text)
}

// Delete removes the characters in r.
func (d *Document) Delete(r Range) error {
	return d.Replace(r, "")
}

// Replace substitutes text for the characters in r. Spans over the removed
// characters are cut; spans after r move with the text.
func (d *Document) Replace(r Range, text string) error {
	if err := r.Check(len(d.text)); err != nil {
		return err
	}
	if i := invalidUTF8(text); i >= 0 {
		return errors.NewEncoding("input", i)
	}
	ins := []rune(text)
	if r.IsEmpty() && len(ins) == 0 {
		return nil
	}

	next := make([]rune, 0, len(d.text)-r.Len()+len(ins))
	next = append(next, d.text[:r.Start]...)
	next = append(next, ins...)
	next = append(next, d.text[r.End:]...)

	spans := shiftForDelete(d.spans, r)
	spans = shiftForInsert(spans, r.Start, len(ins))

	d.hist.record(d.snapshot())
	d.text, d.spans = next, spans
	return nil
}

// SetText replaces the whole buffer and drops all styles.
func (d *Document) SetText(text string) error {
	if i := invalidUTF8(text); i >= 0 {
		return errors.NewEncoding("input", i)
	}
	if text == string(d.text) && len(d.spans) == 0 {
		return nil
	}
	d.hist.record(d.snapshot())
	d.text, d.spans = []rune(text), nil
	return nil
}

// CanUndo reports whether Undo would change the document.
func (d *Document) CanUndo() bool { return len(d.hist.undo) > 0 }

// CanRedo reports whether Redo would change the document.
func (d *Document) CanRedo() bool { return len(d.hist.redo) > 0 }

// Undo reverts the most recent text or style change.
func (d *Document) Undo() bool {
	prev, ok := d.hist.popUndo(d.snapshot())
	if ok {
		d.restore(prev)
	}
	return ok
}

// Redo reapplies the most recently undone change.
func (d *Document) Redo() bool {
	next, ok := d.hist.popRedo(d.snapshot())
	if ok {
		d.restore(next)
	}
	return ok
}

func (d *Document) setSpans(spans []Span) {
	if slices.Equal(spans, d.spans) {
		return
	}
	d.hist.record(d.snapshot())
	d.spans = spans
}

func (d *Document) snapshot() snapshot {
	return snapshot{text: d.text, spans: d.spans}
}

func (d *Document) restore(s snapshot) {
	d.text, d.spans = s.text, s.spans
}

// invalidUTF8 returns the byte offset of the first invalid sequence, or -1.
func invalidUTF8(s string) int {
	if utf8.ValidString(s) {
		return -1
	}
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return i
			}
		}
	}
	return -1
}

// InvalidUTF8 returns the byte offset of the first invalid sequence in b, or -1.
func InvalidUTF8(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
