package cachesim

type (
	// ObjectID identifies an object within a trace.
	ObjectID = uint64

	// Request is a single trace event.
	// Readers overwrite the same Request on every read,
	// so callers that need to retain one must copy it.
	Request struct {
		// RealTime is the timestamp recorded by the trace.
		RealTime int64
		// NextAccessTime is the timestamp of the next request
		// for the same object. Only oracle traces carry it;
		// -1 means the object is never requested again.
		NextAccessTime int64
		ID             ObjectID
		// Size of the object in bytes.
		Size int64
		// Valid is false once a reader reaches the end of its trace.
		Valid bool
	}

	// Object is the record a cache keeps for an object it knows about.
	// Ghost lists keep Objects for ids whose data was evicted.
	Object struct {
		// Meta is reserved for algorithm specific state.
		Meta any
		ID   ObjectID
		Size int64
	}
)

// NewRequest returns a valid request for id with the given size.
func NewRequest(id ObjectID, size int64) *Request {
	return &Request{
		ID:             id,
		Size:           size,
		NextAccessTime: -1,
		Valid:          true,
	}
}

// CopyObject sets the request's identity from obj,
// leaving timestamps untouched.
func (req *Request) CopyObject(obj *Object) {
	req.ID = obj.ID
	req.Size = obj.Size
	req.Valid = true
}

// Object returns a new object described by the request.
func (req *Request) Object() Object {
	return Object{
		ID:   req.ID,
		Size: req.Size,
	}
}

// Validate reports whether the request can be looked up by a cache.
func (req *Request) Validate() bool {
	return req.Valid && req.Size >= 0
}
