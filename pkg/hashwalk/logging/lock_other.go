//go:build !unix

package logging

import "os"

// Without flock only the in-process mutex serialises writes.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) {}
