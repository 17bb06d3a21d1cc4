//go:build windows

package editor

import (
	"fmt"
	"os"

	"github.com/hpungsan/jot/internal/errors"
)

// openNoFollow opens path after refusing symlinks with Lstat.
// Windows has no O_NOFOLLOW; creating symlinks there needs privileges, so the
// remaining window is accepted.
func openNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrSymlinkRefused, path)
	}
	return os.OpenFile(path, flag, perm)
}
