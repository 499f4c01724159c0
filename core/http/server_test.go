package http

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/kairoslabs/headparse/core/headparse"
)

func TestListenAndServeRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- serveOneConn(ln, func(req *headparse.Request) (int, []byte) {
			if string(req.Path) != "/ping" {
				return 404, nil
			}
			return 200, []byte("pong")
		})
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	if _, err := conn.Write([]byte("GET /ping HTTP/1.1\r\nConnection: close\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read status line: %v", err)
	}
	conn.Close()
	if line != "HTTP/1.1 200 OK\r\n" {
		t.Fatalf("status line = %q", line)
	}

	if err := <-done; err != nil {
		t.Fatalf("serveOneConn: %v", err)
	}
}

// serveOneConn accepts exactly one connection and serves it, for tests
// that don't want ListenAndServe's infinite accept loop.
func serveOneConn(ln net.Listener, handler Handler) error {
	conn, err := ln.Accept()
	if err != nil {
		return err
	}
	serveConn(conn, handler)
	return nil
}
