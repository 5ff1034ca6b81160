//go:build linux || darwin || freebsd || netbsd || openbsd

package trace

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps the file read only, hinting sequential access.
func mapFile(file *os.File, size int64) (*bytesSource, error) {
	if size == 0 {
		return new(bytesSource), nil
	}
	length, err := mapLength(size)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", file.Name(), err)
	}
	data, err := unix.Mmap(int(file.Fd()), 0, length, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", file.Name(), err)
	}
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		unix.Munmap(data)
		return nil, fmt.Errorf("madvise %s: %w", file.Name(), err)
	}
	return &bytesSource{
		data:    data,
		release: func() error { return unix.Munmap(data) },
	}, nil
}
