package serialactor

import "os"

// openTruncate opens path for writing, creating it if necessary and
// truncating any existing content, matching the original session log's
// one-file-per-run behavior.
func openTruncate(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}
