//go:build !linux

package snapstore

import "os"

// syncRange falls back to a whole-file fsync on platforms without
// sync_file_range; offset and length are unused but kept so callers don't
// need a build-tagged call site.
func syncRange(f *os.File, offset, length int64) error {
	return f.Sync()
}
