package trace

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"

	cachesim "github.com/djdv/go-cachesim"
)

type csvText struct {
	data []byte
	// headerEnd is the offset just past a header line, or 0.
	headerEnd int64
}

const (
	csvSeparator = ','
	csvComment   = '#'
)

func (t *csvText) setup(r *Reader) error {
	mapped, ok := r.src.(interface{ Bytes() []byte })
	if !ok {
		return fmt.Errorf("%w: %s traces must be memory mapped", ErrUnsupported, CSV)
	}
	t.data = mapped.Bytes()
	r.end = int64(len(t.data))
	var (
		scratch cachesim.Request
		offset  int64
		first   = true
	)
	for offset < r.end {
		line, next := t.line(offset)
		offset = next
		if skipLine(line) {
			continue
		}
		if first {
			first = false
			if !startsWithNumber(line) {
				t.headerEnd = offset
				continue
			}
		}
		if err := parseCSVRecord(line, &scratch); err == nil && scratch.Size != 0 {
			r.total++
		}
	}
	return nil
}

func (t *csvText) readOne(r *Reader, req *cachesim.Request) error {
	if r.offset < t.headerEnd {
		r.offset = t.headerEnd
	}
	for r.offset < r.end {
		lineStart := r.offset
		line, next := t.line(r.offset)
		r.offset = next
		if skipLine(line) {
			continue
		}
		if err := parseCSVRecord(line, req); err != nil {
			req.Valid = false
			return fmt.Errorf("offset %d: %w", lineStart, err)
		}
		if req.Size == 0 {
			continue
		}
		req.Valid = true
		return nil
	}
	req.Valid = false
	return io.EOF
}

// line returns the line starting at offset, without its terminator,
// and the offset of the following line.
func (t *csvText) line(offset int64) ([]byte, int64) {
	rest := t.data[offset:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		return bytes.TrimSpace(rest[:i]), offset + int64(i) + 1
	}
	return bytes.TrimSpace(rest), int64(len(t.data))
}

func skipLine(line []byte) bool {
	return len(line) == 0 || line[0] == csvComment
}

func startsWithNumber(line []byte) bool {
	field, _, _ := bytes.Cut(line, []byte{csvSeparator})
	_, err := strconv.ParseInt(string(bytes.TrimSpace(field)), 10, 64)
	return err == nil
}

func parseCSVRecord(line []byte, req *cachesim.Request) error {
	var (
		fields [4][]byte
		count  int
	)
	for rest := line; count < len(fields); count++ {
		field, tail, more := bytes.Cut(rest, []byte{csvSeparator})
		fields[count] = bytes.TrimSpace(field)
		if !more {
			count++
			break
		}
		rest = tail
	}
	if count < 3 {
		return fmt.Errorf("%w: want at least 3 fields, got %d", ErrMalformed, count)
	}
	realTime, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: time: %w", ErrMalformed, err)
	}
	size, err := strconv.ParseInt(string(fields[2]), 10, 64)
	if err != nil || size < 0 {
		return fmt.Errorf("%w: size %q", ErrMalformed, fields[2])
	}
	nextAccess := int64(-1)
	if count > 3 && len(fields[3]) != 0 {
		if nextAccess, err = strconv.ParseInt(string(fields[3]), 10, 64); err != nil {
			return fmt.Errorf("%w: next access time: %w", ErrMalformed, err)
		}
	}
	req.RealTime = realTime
	req.ID = parseKey(fields[1])
	req.Size = size
	req.NextAccessTime = nextAccess
	return nil
}

// parseKey uses numeric keys as ids and hashes anything else.
func parseKey(key []byte) cachesim.ObjectID {
	if id, err := strconv.ParseUint(string(key), 10, 64); err == nil {
		return id
	}
	return xxhash.Sum64(key)
}
