//go:build !windows

package config

import "os"

// isExecutable reports whether info's mode carries any executable bit,
// mirroring the original configs module's check.
func isExecutable(info os.FileInfo) bool {
	return info.Mode().Perm()&0o111 != 0
}
