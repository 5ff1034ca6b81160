//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package trace

import (
	"io"
	"os"
)

// mapFile reads the whole file where mmap is not available.
func mapFile(file *os.File, size int64) (*bytesSource, error) {
	length, err := mapLength(size)
	if err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(file, data); err != nil {
		return nil, err
	}
	return &bytesSource{data: data}, nil
}
