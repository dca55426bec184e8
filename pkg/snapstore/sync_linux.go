//go:build linux

package snapstore

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncRange durably flushes exactly the byte range [offset, offset+length) of
// f, using sync_file_range so a write to one cluster never blocks on syncing
// unrelated parts of the backing file.
func syncRange(f *os.File, offset, length int64) error {
	return unix.SyncFileRange(int(f.Fd()), offset, length,
		unix.SYNC_FILE_RANGE_WAIT_BEFORE|unix.SYNC_FILE_RANGE_WRITE|unix.SYNC_FILE_RANGE_WAIT_AFTER)
}
