//go:build unix

package mtwriter

import "golang.org/x/sys/unix"

// freeBytes reports the free space available on the filesystem holding
// path, used to back off before the write stage starts a record that
// would not fit (spec.md §4.8 "disk-full backpressure").
func freeBytes(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
