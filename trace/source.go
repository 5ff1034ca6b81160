package trace

import (
	"fmt"
	"io"
	"math"
)

type (
	// source provides bounds checked views of a trace's bytes.
	// A view is only valid until the next call to view.
	source interface {
		size() int64
		view(offset int64, length int) ([]byte, error)
		Close() error
	}

	// bytesSource serves views of a contiguous buffer,
	// either memory mapped or owned by the caller.
	bytesSource struct {
		data    []byte
		release func() error
	}
)

func (s *bytesSource) Bytes() []byte { return s.data }

func (s *bytesSource) size() int64 { return int64(len(s.data)) }

func (s *bytesSource) view(offset int64, length int) ([]byte, error) {
	end := offset + int64(length)
	if offset < 0 || length < 0 || end > int64(len(s.data)) {
		return nil, fmt.Errorf("view [%d:%d] of %d bytes: %w",
			offset, end, len(s.data), io.ErrUnexpectedEOF)
	}
	return s.data[offset:end:end], nil
}

func (s *bytesSource) Close() error {
	release := s.release
	s.data, s.release = nil, nil
	if release == nil {
		return nil
	}
	return release()
}

// mapLength converts a file size to a slice length,
// rejecting files the address space cannot hold.
func mapLength(size int64) (int, error) {
	if size < 0 || uint64(size) > math.MaxInt {
		return 0, fmt.Errorf("%w: %d byte file does not fit in memory",
			ErrUnsupported, size)
	}
	return int(size), nil
}
