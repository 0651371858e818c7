package hasher

import (
	"errors"
	"io/fs"
	"syscall"
)

// UnknownCode is reported for failures that carry no OS error code.
const UnknownCode = "UNKNOWN"

// ErrorCode returns the symbolic OS error code of err, such as "ENOENT" or
// "EACCES", or UnknownCode.
func ErrorCode(err error) string {
	if err == nil {
		return UnknownCode
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name := errnoName(errno); name != "" {
			return name
		}
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "ENOENT"
	case errors.Is(err, fs.ErrPermission):
		return "EACCES"
	default:
		return UnknownCode
	}
}
