package trace

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ncw/directio"
)

// directSource reads the trace through an aligned window,
// bypassing the page cache.
type directSource struct {
	file   io.ReaderAt
	closer io.Closer
	window []byte
	// start is the file offset of window[0], -1 before the first fill.
	start, length int64
	filled        int
}

// directWindowBlocks sets the window to 1MiB with 4KiB blocks.
const directWindowBlocks = 256

func openDirect(path string) (*directSource, error) {
	file, err := directio.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	return newDirectSource(file, file, info.Size()), nil
}

func newDirectSource(file io.ReaderAt, closer io.Closer, length int64) *directSource {
	return &directSource{
		file:   file,
		closer: closer,
		window: directio.AlignedBlock(directWindowBlocks * directio.BlockSize),
		start:  -1,
		length: length,
	}
}

func (s *directSource) size() int64 { return s.length }

func (s *directSource) view(offset int64, length int) ([]byte, error) {
	end := offset + int64(length)
	if offset < 0 || length < 0 || end > s.length {
		return nil, fmt.Errorf("view [%d:%d] of %d bytes: %w",
			offset, end, s.length, io.ErrUnexpectedEOF)
	}
	if length > len(s.window)-directio.BlockSize {
		return nil, fmt.Errorf("%w: %d byte records exceed the direct I/O window",
			ErrUnsupported, length)
	}
	if s.start < 0 || offset < s.start || end > s.start+int64(s.filled) {
		if err := s.fill(offset - offset%directio.BlockSize); err != nil {
			return nil, err
		}
		if end > s.start+int64(s.filled) {
			return nil, fmt.Errorf("short read at %d: %w", s.start, io.ErrUnexpectedEOF)
		}
	}
	begin := offset - s.start
	return s.window[begin : begin+int64(length)], nil
}

func (s *directSource) fill(start int64) error {
	read, err := s.file.ReadAt(s.window, start)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	s.start, s.filled = start, read
	return nil
}

func (s *directSource) Close() error {
	if s.closer == nil {
		return nil
	}
	closer := s.closer
	s.closer = nil
	return closer.Close()
}
