//go:build !unix

package hasher

import "syscall"

// errnoName has no symbolic table outside unix; ErrorCode falls back to
// matching the portable fs errors.
func errnoName(syscall.Errno) string {
	return ""
}
