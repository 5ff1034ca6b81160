package trace

import (
	"fmt"
	"strings"

	cachesim "github.com/djdv/go-cachesim"
)

type (
	// Format selects the record layout of a trace.
	Format uint8

	// protocol is implemented once per format.
	// setup inspects the source before the first read and
	// readOne decodes the next request, skipping records that
	// carry no object.
	// At the end of the trace readOne invalidates req and returns io.EOF.
	protocol interface {
		setup(r *Reader) error
		readOne(r *Reader, req *cachesim.Request) error
	}
)

const (
	// OracleBinary is a sequence of 24 byte little-endian records:
	//
	//	uint32 real_time
	//	uint64 obj_id
	//	uint32 obj_size
	//	int64  next_access_ts
	OracleBinary Format = iota + 1
	// CSV is a text trace with one request per line:
	//
	//	time,key,size[,next_access_time]
	//
	// Keys that are not unsigned integers are hashed.
	// Lines starting with '#', and a header line, are skipped.
	CSV
)

// ParseFormat returns the format called name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "oraclebin", "oracle", "oracle-bin":
		return OracleBinary, nil
	case "csv":
		return CSV, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

func (f Format) String() string {
	switch f {
	case OracleBinary:
		return "oracleBin"
	case CSV:
		return "csv"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

func (f Format) protocol() (protocol, error) {
	switch f {
	case OracleBinary:
		return new(oracleBinary), nil
	case CSV:
		return new(csvText), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}
