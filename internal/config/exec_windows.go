//go:build windows

package config

import "os"

// isExecutable is a no-op on Windows, which has no POSIX executable bit;
// the original configs module only enforces this on Unix.
func isExecutable(info os.FileInfo) bool {
	return true
}
