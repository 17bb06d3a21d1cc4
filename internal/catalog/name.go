package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/hpungsan/jot/internal/errors"
)

// MaxNameBytes is the longest file name accepted (common file-system limit).
const MaxNameBytes = 255

// ValidateName checks that name can be used as a file directly inside the
// documents directory and returns it in Unicode NFC form.
//
// Rejected: empty or whitespace-only names, "." and "..", path separators,
// control characters, leading dots (reserved for temp files), and names
// longer than MaxNameBytes.
func ValidateName(name string) (string, error) {
	if name == "" {
		return "", errors.NewInvalidName(name, "name is required")
	}
	if strings.TrimSpace(name) == "" {
		return "", errors.NewInvalidName(name, "name must not be blank")
	}

	name = norm.NFC.String(name)

	if name == "." || name == ".." {
		return "", errors.NewInvalidName(name, "name must not be a directory reference")
	}
	if strings.ContainsAny(name, `/\`) {
		return "", errors.NewInvalidName(name, "name must not contain a path separator")
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return "", errors.NewInvalidName(name, "name must not contain control characters")
	}
	if strings.HasPrefix(name, ".") {
		return "", errors.NewInvalidName(name, "name must not start with a dot")
	}
	if len(name) > MaxNameBytes {
		return "", errors.NewInvalidName(name, "name is too long")
	}
	return name, nil
}
