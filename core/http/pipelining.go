// Package http supplies a net.Conn-based request loop for callers that
// don't want to hand-roll an epoll/kqueue loop themselves (see
// core/engine.go for the one that does). It is built directly on
// core/headparse's three terminal outcomes instead of the
// bytes.IndexByte-based ad hoc line splitting an earlier version of
// this package used.
package http

import (
	"errors"
	"io"
	"net"

	"github.com/kairoslabs/headparse/core/headparse"
)

// ErrConnectionClosed is returned by PipelineHandler.Next when the peer
// closed the connection with nothing left to parse.
var ErrConnectionClosed = errors.New("http: connection closed")

// PipelineHandler reads one or more HTTP/1.x request heads off a
// net.Conn, retaining whatever bytes of a pipelined next request were
// already read alongside the current one: the same byte prefix stays in
// the buffer, newly received bytes are appended, and the parser is
// driven again from offset zero.
type PipelineHandler struct {
	conn net.Conn
	buf  []byte
	size int // buf[:size] holds bytes read but not yet released
	last int // length of the head Next last returned; released on the next call
}

// NewPipelineHandler creates a handler reading off conn with an initial
// buffer of initialBufSize bytes (grown by doubling as needed).
func NewPipelineHandler(conn net.Conn, initialBufSize int) *PipelineHandler {
	if initialBufSize <= 0 {
		initialBufSize = 4096
	}
	return &PipelineHandler{
		conn: conn,
		buf:  make([]byte, initialBufSize),
	}
}

// Next parses the next request head into req, reading more bytes off
// the connection as needed. It never returns headparse.Incomplete: that
// outcome only ever triggers another Read internally. A non-nil error
// means the connection is unusable; req's fields are unspecified. On
// Success, req's slices borrow from the handler's buffer and stay valid
// until the next call to Next.
func (ph *PipelineHandler) Next(req *headparse.Request) (headparse.Result, error) {
	if ph.last > 0 {
		ph.consume(ph.last)
		ph.last = 0
	}
	eof := false
	for {
		if ph.size > 0 {
			r, n := headparse.ParseRequest(ph.buf[:ph.size], req)
			switch r {
			case headparse.Success:
				ph.last = n
				return headparse.Success, nil
			case headparse.Invalid:
				return headparse.Invalid, nil
			}
			// Incomplete: read more, unless the peer already closed --
			// no more bytes are coming to complete this prefix.
		}
		if eof {
			return headparse.Incomplete, ErrConnectionClosed
		}

		if ph.size == len(ph.buf) {
			ph.grow()
		}

		n, err := ph.conn.Read(ph.buf[ph.size:])
		if n > 0 {
			ph.size += n
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				eof = true
				continue
			}
			return headparse.Incomplete, err
		}
	}
}

// Pending reports whether a pipelined next request's bytes are already
// buffered, so a caller can avoid blocking on a fresh Read.
func (ph *PipelineHandler) Pending() bool {
	return ph.size > ph.last
}

func (ph *PipelineHandler) consume(n int) {
	copy(ph.buf, ph.buf[n:ph.size])
	ph.size -= n
}

func (ph *PipelineHandler) grow() {
	next := make([]byte, len(ph.buf)*2)
	copy(next, ph.buf[:ph.size])
	ph.buf = next
}

// WriteResponses writes multiple responses as a single combined write,
// batching the syscalls a naive per-response write loop would make.
func WriteResponses(conn net.Conn, responses [][]byte) error {
	total := 0
	for _, r := range responses {
		total += len(r)
	}
	combined := make([]byte, 0, total)
	for _, r := range responses {
		combined = append(combined, r...)
	}
	_, err := conn.Write(combined)
	return err
}
