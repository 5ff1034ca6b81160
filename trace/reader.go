// Package trace streams [cachesim.Request] records out of trace files.
//
// A [Reader] is bound to one [Format] and one source of bytes:
// a memory mapped file ([Open]), a file read with direct I/O
// ([WithDirectIO]), or a caller's buffer ([NewReader]).
// Reads decode records in place and reuse the caller's Request.
//
// The read offset belongs to the Reader, so concurrent replays
// of one trace need one Reader each.
package trace

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/sirupsen/logrus"

	cachesim "github.com/djdv/go-cachesim"
)

type (
	// Reader produces the requests of a trace in order.
	// Constructed by [Open] or [NewReader].
	Reader struct {
		logger   logrus.FieldLogger
		src      source
		protocol protocol
		path     string
		format   Format
		// offset is the position of the next record;
		// end is the offset past the last complete record.
		offset, end int64
		total       int64
		itemSize    int
	}

	// Option configures a [Reader].
	Option func(*settings)

	settings struct {
		logger   logrus.FieldLogger
		directIO bool
	}
)

// WithLogger sets the logger for warnings about the trace.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithDirectIO reads the file with direct I/O through an aligned window,
// instead of memory mapping it. Only fixed size formats support it.
func WithDirectIO() Option {
	return func(s *settings) {
		s.directIO = true
	}
}

func newSettings(options []Option) settings {
	s := settings{logger: logrus.StandardLogger()}
	for _, apply := range options {
		apply(&s)
	}
	return s
}

// Open prepares the trace at path for reading.
func Open(path string, format Format, options ...Option) (*Reader, error) {
	var (
		settings = newSettings(options)
		src      source
	)
	if settings.directIO {
		if format != OracleBinary {
			return nil, fmt.Errorf("%w: direct I/O of %s traces", ErrUnsupported, format)
		}
		direct, err := openDirect(path)
		if err != nil {
			return nil, err
		}
		src = direct
	} else {
		mapped, err := openMapped(path)
		if err != nil {
			return nil, err
		}
		src = mapped
	}
	reader, err := newReader(src, path, format, settings)
	if err != nil {
		return nil, errors.Join(err, src.Close())
	}
	return reader, nil
}

func openMapped(path string) (*bytesSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// The mapping stays valid after the file is closed.
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	return mapFile(file, info.Size())
}

// NewReader reads a trace held in data.
// data must not be modified while the reader is in use.
func NewReader(data []byte, format Format, options ...Option) (*Reader, error) {
	const path = "<memory>"
	return newReader(
		&bytesSource{data: data},
		path, format, newSettings(options),
	)
}

func newReader(src source, path string, format Format, settings settings) (*Reader, error) {
	protocol, err := format.protocol()
	if err != nil {
		return nil, err
	}
	r := &Reader{
		logger:   settings.logger.WithField("path", path),
		src:      src,
		protocol: protocol,
		path:     path,
		format:   format,
	}
	if err := protocol.setup(r); err != nil {
		return nil, err
	}
	return r, nil
}

// setupFixed prepares the reader for records of itemSize bytes.
// A trailing partial record is ignored.
func (r *Reader) setupFixed(itemSize int) error {
	var (
		fileSize = r.src.size()
		size     = int64(itemSize)
	)
	r.itemSize = itemSize
	if remainder := fileSize % size; remainder != 0 {
		r.logger.WithFields(logrus.Fields{
			"file_size": fileSize,
			"item_size": itemSize,
		}).Warn("trace file size is not a multiple of the record size")
	}
	r.total = fileSize / size
	r.end = r.total * size
	return nil
}

// nextRecord returns the fixed size record at the offset and advances past it.
func (r *Reader) nextRecord() ([]byte, error) {
	if r.offset+int64(r.itemSize) > r.end {
		return nil, io.EOF
	}
	record, err := r.src.view(r.offset, r.itemSize)
	if err != nil {
		return nil, err
	}
	r.offset += int64(r.itemSize)
	return record, nil
}

// ReadOne decodes the next request into req.
// At the end of the trace req is marked invalid and io.EOF is returned.
func (r *Reader) ReadOne(req *cachesim.Request) error {
	return r.protocol.readOne(r, req)
}

// Requests returns an iterator over the remaining requests.
// The same *Request is yielded each time.
// Iteration stops at the end of the trace or after yielding an error.
func (r *Reader) Requests() iter.Seq2[*cachesim.Request, error] {
	return func(yield func(*cachesim.Request, error) bool) {
		req := new(cachesim.Request)
		for {
			err := r.ReadOne(req)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(req, nil) {
				return
			}
		}
	}
}

// TotalRequests returns the number of records in the trace.
// For fixed size formats this includes zero sized records.
func (r *Reader) TotalRequests() int64 { return r.total }

// Format returns the format the reader decodes.
func (r *Reader) Format() Format { return r.format }

// Path returns the trace's file name.
func (r *Reader) Path() string { return r.path }

// Offset returns the byte offset of the next record.
func (r *Reader) Offset() int64 { return r.offset }

// Reset rewinds the reader to the start of the trace.
func (r *Reader) Reset() { r.offset = 0 }

// Close releases the trace's source.
func (r *Reader) Close() error { return r.src.Close() }
