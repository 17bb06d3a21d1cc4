package document

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpungsan/jot/internal/errors"
)

// Style is a set of character formatting flags.
type Style uint8

// Formatting flags. Flags combine: a character may be bold, italic and underlined.
const (
	StyleNone      Style = 0
	StyleBold      Style = 1 << 0
	StyleItalic    Style = 1 << 1
	StyleUnderline Style = 1 << 2
)

var styleNames = []struct {
	flag Style
	name string
}{
	{StyleBold, "bold"},
	{StyleItalic, "italic"},
	{StyleUnderline, "underline"},
}

// Has returns true if every flag in other is set in s.
func (s Style) Has(other Style) bool {
	return s&other == other
}

// With returns s with the flags in other added.
func (s Style) With(other Style) Style {
	return s | other
}

// Without returns s with the flags in other removed.
func (s Style) Without(other Style) Style {
	return s &^ other
}

// Names returns the flag names set in s, in bold, italic, underline order.
func (s Style) Names() []string {
	names := make([]string, 0, len(styleNames))
	for _, n := range styleNames {
		if s&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

// String returns the flag names joined by "+", or "none".
func (s Style) String() string {
	if s == StyleNone {
		return "none"
	}
	return strings.Join(s.Names(), "+")
}

// ParseStyle parses flag names separated by commas, pipes, plus signs or
// spaces ("bold", "bold,italic", "b+u"). Single-letter abbreviations are accepted.
func ParseStyle(s string) (Style, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == '|' || r == '+' || r == ' '
	})
	if len(fields) == 0 {
		return StyleNone, errors.NewInvalidRequest("style is required (bold, italic, underline)")
	}

	var style Style
	for _, f := range fields {
		switch f {
		case "bold", "b":
			style |= StyleBold
		case "italic", "i":
			style |= StyleItalic
		case "underline", "u":
			style |= StyleUnderline
		default:
			return StyleNone, errors.NewInvalidRequest(fmt.Sprintf("unknown style %q (want bold, italic, underline)", f))
		}
	}
	return style, nil
}

// MarshalJSON encodes the style as a list of flag names.
func (s Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON accepts either a list of flag names or a single string.
func (s *Style) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		names = []string{one}
	}
	if len(names) == 0 {
		*s = StyleNone
		return nil
	}
	parsed, err := ParseStyle(strings.Join(names, ","))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
