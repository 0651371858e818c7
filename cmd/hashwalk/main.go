// Package main provides the hashwalk CLI, which writes a checksum manifest
// for a directory tree and reports the manifest's own digest.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
