package headparse

// MaxHeaders is the fixed capacity of the header array embedded in
// Request and Response: caller-owned storage with no dynamic growth
// path, matching the zero allocation requirement -- a message with
// more headers than this reports Invalid (see parseHeaderBlock).
const MaxHeaders = 64

// MinRequestLen is the length of the shortest possible request head
// ("GET  HTTP/1.1\n\n": empty path, bare-LF line ends), and is checked upfront so
// the method recognizer never has to report Incomplete mid-token.
const MinRequestLen = 15

// Request holds the borrowed output of a successful (or in-progress)
// ParseRequest call. Every slice field points into the buffer that was
// passed to ParseRequest; none of it survives the buffer being reused.
type Request struct {
	Method      Method
	Path        []byte
	Version     Version
	Headers     [MaxHeaders]HeaderSlot
	HeaderCount int
}

// ParseRequest parses a request line and header block from buf into out,
// returning Success with the number of bytes consumed, or Incomplete, or
// Invalid. On anything but Success, the fields already written to out
// must be treated as unspecified.
//
// ParseRequest does not allocate, does not retain buf past the call, and
// is safe to call again from offset zero on a longer buffer (the caller
// appends newly received bytes and keeps the prefix already present).
func ParseRequest(buf []byte, out *Request) (Result, int) {
	out.Method = MethodUnknown
	out.Path = nil
	out.Version = VersionV1_0
	out.HeaderCount = 0

	if len(buf) < MinRequestLen {
		return Incomplete, 0
	}

	c := cursor{buf: buf}

	method, r := recognizeMethod(&c)
	if r != Success {
		return r, 0
	}
	out.Method = method

	path, r := parsePath(&c)
	if r != Success {
		return r, 0
	}
	out.Path = path

	version, r := recognizeVersionRequestLine(&c)
	if r != Success {
		return r, 0
	}
	out.Version = version

	count, r := parseHeaderBlock(&c, out.Headers[:])
	out.HeaderCount = count
	if r != Success {
		return r, 0
	}

	return Success, c.pos
}
