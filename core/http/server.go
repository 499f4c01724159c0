package http

import (
	"bytes"
	"log"
	"net"

	"golang.org/x/net/netutil"

	"github.com/kairoslabs/headparse/core/headparse"
)

// Handler produces a response for one parsed request head. It is the
// net.Conn-based counterpart to core.HandlerFunc; this package does not
// import core, and core/engine.go runs its own epoll loop rather than
// this one.
type Handler func(req *headparse.Request) (status int, body []byte)

// ListenAndServe runs a goroutine-per-connection HTTP/1.x server on
// addr, dispatching each parsed request head in sequence to handler.
// maxConns bounds the number of simultaneously accepted connections via
// golang.org/x/net/netutil.LimitListener -- the plain net.Listener
// equivalent of the connection-table cap core/engine.go enforces
// against its own epoll-derived fd, which never goes through
// net.Listener.Accept and so can't be wrapped the same way.
func ListenAndServe(addr string, maxConns int, handler Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go serveConn(conn, handler)
	}
}

func serveConn(conn net.Conn, handler Handler) {
	defer conn.Close()

	ph := NewPipelineHandler(conn, 4096)
	for {
		var req headparse.Request
		result, err := ph.Next(&req)
		switch result {
		case headparse.Success:
			keepAlive := wantsKeepAlive(&req)
			status, body := handler(&req)
			if writeErr := writeResponse(conn, status, body, keepAlive); writeErr != nil {
				return
			}
			if !keepAlive {
				return
			}
		case headparse.Invalid:
			writeResponse(conn, 400, []byte("Bad Request"), false)
			return
		default:
			if err != nil && err != ErrConnectionClosed {
				log.Printf("http: connection %s: %v", conn.RemoteAddr(), err)
			}
			return
		}
	}
}

// wantsKeepAlive applies the same HTTP/1.0-defaults-to-close,
// HTTP/1.1-defaults-to-keep-alive rule core/engine.go's
// keepAliveWanted enforces on the epoll path.
func wantsKeepAlive(req *headparse.Request) bool {
	keepAlive := req.Version != headparse.VersionV1_0
	for i := 0; i < req.HeaderCount; i++ {
		h := req.Headers[i]
		if !bytes.EqualFold(h.Key, []byte("Connection")) {
			continue
		}
		switch {
		case bytes.EqualFold(h.Value, []byte("close")):
			return false
		case bytes.EqualFold(h.Value, []byte("keep-alive")):
			return true
		}
	}
	return keepAlive
}

func writeResponse(conn net.Conn, status int, body []byte, keepAlive bool) error {
	text, ok := statusText[status]
	if !ok {
		text = "Unknown"
	}
	buf := make([]byte, 0, len(body)+128)
	buf = append(buf, "HTTP/1.1 "...)
	buf = appendInt(buf, status)
	buf = append(buf, ' ')
	buf = append(buf, text...)
	buf = append(buf, "\r\nContent-Length: "...)
	buf = appendInt(buf, len(body))
	if keepAlive {
		buf = append(buf, "\r\nConnection: keep-alive\r\n\r\n"...)
	} else {
		buf = append(buf, "\r\nConnection: close\r\n\r\n"...)
	}
	buf = append(buf, body...)
	_, err := conn.Write(buf)
	return err
}

var statusText = map[int]string{
	200: "OK",
	400: "Bad Request",
	404: "Not Found",
}

func appendInt(buf []byte, n int) []byte {
	if n == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	for l, r := start, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	return buf
}
