//go:build !windows

package editor

import (
	stderrors "errors"
	"fmt"
	"os"
	"syscall"

	"github.com/hpungsan/jot/internal/errors"
)

// openNoFollow opens path with O_NOFOLLOW so a symlink planted at the final
// path component is refused rather than written through. O_CLOEXEC prevents
// FD leaks across exec.
//
// Only the final component is protected. Catalog names cannot contain a path
// separator, so every document lives directly in the documents directory.
func openNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, fmt.Errorf("%w: %s", errors.ErrSymlinkRefused, path)
		}
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}
