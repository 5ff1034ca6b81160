package trace

type constError string

const (
	// ErrUnknownFormat is returned for format names that are not registered.
	ErrUnknownFormat = constError("unknown trace format")
	// ErrUnsupported is returned when a format cannot be
	// read from the requested kind of source.
	ErrUnsupported = constError("unsupported trace source")
	// ErrMalformed is returned for records that cannot be decoded.
	ErrMalformed = constError("malformed trace record")
)

func (errStr constError) Error() string { return string(errStr) }
