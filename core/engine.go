package core

import (
	"bytes"
	"log"
	"net"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/kairoslabs/headparse/core/headparse"
	"github.com/kairoslabs/headparse/core/poller"
	"github.com/kairoslabs/headparse/core/pools"
	"github.com/kairoslabs/headparse/core/router"
)

// ResponseBuilder is the minimal response surface a registered handler
// gets: a status code and a body. Response header synthesis beyond the
// status line, Content-Length and the Connection header is out of scope here, the same
// way body decoding is out of scope for core/headparse itself.
type ResponseBuilder struct {
	Status int
	Body   []byte
}

// HandlerFunc is the signature routes registered on Engine use. params
// holds any :name route parameters the radix router matched; it is nil
// for routes with no parameters.
type HandlerFunc func(req *headparse.Request, params map[string]string, resp *ResponseBuilder)

// handlerContext is what gets threaded through router.HandlerFunc's
// ctx any parameter.
type handlerContext struct {
	req    *headparse.Request
	resp   *ResponseBuilder
	params map[string]string
}

// Connection states
const (
	StateReading = iota
	StateProcessing
	StateKeepalive
)

// Connection represents an active connection, its retained read prefix,
// and the parsed Request that prefix currently holds (if complete).
type Connection struct {
	fd         int
	state      int
	readBuf    []byte
	readOffset int
	req        headparse.Request
	lastActive time.Time
	closeAfter bool
}

// Reset implements pools.ConnectionPoolable.
func (c *Connection) Reset() {
	c.fd = -1
	c.state = StateReading
	c.readBuf = nil
	c.readOffset = 0
	c.req = headparse.Request{}
	c.closeAfter = false
}

// SetFD implements pools.ConnectionPoolable.
func (c *Connection) SetFD(fd int) {
	c.fd = fd
	c.lastActive = time.Now()
}

// Engine is a minimal HTTP/1.x server: epoll/kqueue readiness,
// zero-allocation restartable header parsing via core/headparse, and
// radix-tree dispatch.
type Engine struct {
	router *router.RadixRouter
	poller poller.Poller

	connections map[int]*Connection
	connMu      sync.RWMutex

	maxConnections int
	idleTimeout    time.Duration

	bytePool       *pools.BytePool
	bufferPool     *pools.BufferPool
	connectionPool *pools.ConnectionPool
	workerPool     *pools.WorkerPool

	shutdown chan struct{}
}

// NewEngine creates a new engine instance.
func NewEngine() *Engine {
	e := &Engine{
		router:         router.NewRadixRouter(),
		connections:    make(map[int]*Connection, 10000),
		maxConnections: 100000,
		idleTimeout:    60 * time.Second,
		shutdown:       make(chan struct{}),
	}

	pools.OptimizeForHighThroughput()

	e.bytePool = pools.NewBytePool()
	e.bufferPool = pools.NewBufferPool()
	e.connectionPool = pools.NewConnectionPool(10000, func() any {
		return &Connection{fd: -1, state: StateReading}
	})
	e.workerPool = pools.NewWorkerPool(runtime.NumCPU())

	log.Printf("engine: byte pool 4-tier (512/2K/8K/32K), %d workers, connection pool warm", runtime.NumCPU())

	return e
}

// GET registers a GET route.
func (e *Engine) GET(path string, handler HandlerFunc) { e.handle(headparse.MethodGet, path, handler) }

// POST registers a POST route.
func (e *Engine) POST(path string, handler HandlerFunc) { e.handle(headparse.MethodPost, path, handler) }

// PUT registers a PUT route.
func (e *Engine) PUT(path string, handler HandlerFunc) { e.handle(headparse.MethodPut, path, handler) }

// DELETE registers a DELETE route.
func (e *Engine) DELETE(path string, handler HandlerFunc) {
	e.handle(headparse.MethodDelete, path, handler)
}

// PATCH registers a PATCH route.
func (e *Engine) PATCH(path string, handler HandlerFunc) { e.handle(headparse.MethodPatch, path, handler) }

// HEAD registers a HEAD route.
func (e *Engine) HEAD(path string, handler HandlerFunc) { e.handle(headparse.MethodHead, path, handler) }

// OPTIONS registers an OPTIONS route.
func (e *Engine) OPTIONS(path string, handler HandlerFunc) {
	e.handle(headparse.MethodOptions, path, handler)
}

func (e *Engine) handle(method headparse.Method, path string, handler HandlerFunc) {
	e.router.Add(method, path, func(ctx any) {
		hc := ctx.(*handlerContext)
		handler(hc.req, hc.params, hc.resp)
	})
}

// Run starts the server, accepting connections on addr until Shutdown
// is called.
func (e *Engine) Run(addr string) error {
	laddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return err
	}

	ln, err := net.ListenTCP("tcp", laddr)
	if err != nil {
		return err
	}
	defer ln.Close()

	lnFile, err := ln.File()
	if err != nil {
		return err
	}
	lfd := int(lnFile.Fd())

	if err := syscall.SetNonblock(lfd, true); err != nil {
		return err
	}

	e.poller, err = poller.NewPoller(e.maxConnections)
	if err != nil {
		return err
	}
	defer e.poller.Close()

	if err := e.poller.Add(lfd); err != nil {
		return err
	}

	log.Printf("engine: listening on %s", addr)

	go e.cleanupIdleConnections()

	for {
		select {
		case <-e.shutdown:
			log.Printf("engine: shutting down")
			return nil
		default:
		}

		fds, err := e.poller.Wait(100)
		if err != nil {
			log.Printf("engine: poller wait error: %v", err)
			continue
		}

		for _, fd := range fds {
			if fd == lfd {
				e.acceptConnections(lfd)
			} else {
				e.handleConnectionEvent(fd)
			}
		}
	}
}

// Shutdown signals the accept/poll loop to stop and closes every tracked
// connection. It returns without waiting for the loop in Run to exit;
// callers running Run in a goroutine wait on its return value to know
// the listener itself is closed.
func (e *Engine) Shutdown() {
	close(e.shutdown)

	e.connMu.RLock()
	fds := make([]int, 0, len(e.connections))
	for fd := range e.connections {
		fds = append(fds, fd)
	}
	e.connMu.RUnlock()

	for _, fd := range fds {
		e.closeConnection(fd)
	}

	e.workerPool.Close()
}

func (e *Engine) acceptConnections(lfd int) {
	for {
		nfd, _, err := syscall.Accept(lfd)
		if err != nil {
			if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
				return
			}
			log.Printf("engine: accept error: %v", err)
			return
		}

		e.connMu.RLock()
		atCapacity := len(e.connections) >= e.maxConnections
		e.connMu.RUnlock()
		if atCapacity {
			syscall.Close(nfd)
			continue
		}

		if err := syscall.SetNonblock(nfd, true); err != nil {
			syscall.Close(nfd)
			continue
		}
		syscall.SetsockoptInt(nfd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1)
		syscall.SetsockoptInt(nfd, syscall.SOL_SOCKET, syscall.SO_KEEPALIVE, 1)

		conn := e.connectionPool.Get().(*Connection)
		conn.SetFD(nfd)
		conn.state = StateReading
		conn.readBuf = e.bytePool.Get(8192)
		conn.readOffset = 0

		if err := e.poller.Add(nfd); err != nil {
			e.connectionPool.Put(conn)
			syscall.Close(nfd)
			continue
		}

		e.connMu.Lock()
		e.connections[nfd] = conn
		e.connMu.Unlock()
	}
}

func (e *Engine) handleConnectionEvent(fd int) {
	e.connMu.RLock()
	conn, ok := e.connections[fd]
	e.connMu.RUnlock()
	if !ok {
		return
	}

	conn.lastActive = time.Now()
	e.handleRead(conn)
}

// handleRead appends newly available bytes to the connection's retained
// prefix and restartably reparses it from offset zero: Incomplete means
// "keep reading", never "start over".
func (e *Engine) handleRead(conn *Connection) {
	if conn.readOffset == len(conn.readBuf) {
		e.growReadBuf(conn)
	}

	n, err := syscall.Read(conn.fd, conn.readBuf[conn.readOffset:])
	if err != nil {
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			return
		}
		e.closeConnection(conn.fd)
		return
	}
	if n == 0 {
		e.closeConnection(conn.fd)
		return
	}
	conn.readOffset += n

	for {
		result, consumed := headparse.ParseRequest(conn.readBuf[:conn.readOffset], &conn.req)
		switch result {
		case headparse.Incomplete:
			return
		case headparse.Invalid:
			e.sendStatusOnly(conn, 400, "Bad Request")
			e.closeConnection(conn.fd)
			return
		case headparse.Success:
			conn.state = StateProcessing
			e.processRequest(conn)

			remaining := conn.readOffset - consumed
			copy(conn.readBuf, conn.readBuf[consumed:conn.readOffset])
			conn.readOffset = remaining

			if conn.closeAfter {
				e.closeConnection(conn.fd)
				return
			}
			if remaining == 0 {
				conn.state = StateKeepalive
				return
			}
			// Pipelined bytes already read: try to parse the next
			// request immediately without waiting on another Read.
			continue
		}
	}
}

func (e *Engine) growReadBuf(conn *Connection) {
	old := conn.readBuf
	grown := e.bytePool.Get(len(old) * 2)
	copy(grown, old[:conn.readOffset])
	e.bytePool.Put(old)
	conn.readBuf = grown
}

// processRequest dispatches the parsed request to its handler and
// writes the response. The handler itself runs on the worker pool
// rather than inline on the poll goroutine, so a slow handler on one
// connection can't stall readiness events for every other connection;
// processRequest still blocks until it finishes, so response ordering
// on this connection is unaffected.
func (e *Engine) processRequest(conn *Connection) {
	h, params := e.router.Find(conn.req.Method, string(conn.req.Path))

	resp := ResponseBuilder{Status: 200}
	if h == nil {
		resp.Status = 404
		resp.Body = []byte("Not Found")
	} else {
		hc := &handlerContext{req: &conn.req, resp: &resp, params: params}
		var wg sync.WaitGroup
		wg.Add(1)
		e.workerPool.Submit(func() {
			defer wg.Done()
			h(hc)
		})
		wg.Wait()
	}

	conn.closeAfter = !e.keepAliveWanted(conn)
	e.writeResponse(conn, &resp)
}

// keepAliveWanted applies HTTP/1.x's version/Connection-header
// semantics at the one layer that needs them: HTTP/1.0 defaults to
// close, HTTP/1.1 defaults to keep-alive, and an explicit Connection
// header overrides either default.
func (e *Engine) keepAliveWanted(conn *Connection) bool {
	wantsClose := conn.req.Version == headparse.VersionV1_0
	for i := 0; i < conn.req.HeaderCount; i++ {
		h := conn.req.Headers[i]
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
	return !wantsClose
}

var statusText = map[int]string{
	200: "OK",
	404: "Not Found",
	400: "Bad Request",
	500: "Internal Server Error",
}

func (e *Engine) writeResponse(conn *Connection, resp *ResponseBuilder) {
	bufPtr := e.bufferPool.Get(len(resp.Body) + 128)
	buf := (*bufPtr)[:0]

	buf = append(buf, "HTTP/1.1 "...)
	buf = appendInt(buf, resp.Status)
	buf = append(buf, ' ')
	buf = append(buf, statusText[resp.Status]...)
	buf = append(buf, "\r\n"...)

	buf = append(buf, "Content-Length: "...)
	buf = appendInt(buf, len(resp.Body))
	buf = append(buf, "\r\n"...)

	if conn.closeAfter {
		buf = append(buf, "Connection: close\r\n"...)
	} else {
		buf = append(buf, "Connection: keep-alive\r\n"...)
	}
	buf = append(buf, "\r\n"...)
	buf = append(buf, resp.Body...)

	syscall.Write(conn.fd, buf)

	*bufPtr = buf
	e.bufferPool.Put(bufPtr)
}

func (e *Engine) sendStatusOnly(conn *Connection, code int, message string) {
	response := []byte("HTTP/1.1 ")
	response = appendInt(response, code)
	response = append(response, ' ')
	response = append(response, message...)
	response = append(response, "\r\nConnection: close\r\n\r\n"...)
	syscall.Write(conn.fd, response)
}

func (e *Engine) closeConnection(fd int) {
	e.connMu.Lock()
	conn, ok := e.connections[fd]
	if ok {
		delete(e.connections, fd)
	}
	e.connMu.Unlock()

	if !ok {
		return
	}

	e.poller.Remove(fd)

	if conn.readBuf != nil {
		e.bytePool.Put(conn.readBuf)
		conn.readBuf = nil
	}
	syscall.Close(fd)

	conn.Reset()
	e.connectionPool.Put(conn)
}

func (e *Engine) cleanupIdleConnections() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		var toClose []int

		e.connMu.RLock()
		for fd, conn := range e.connections {
			if conn.state != StateProcessing && now.Sub(conn.lastActive) > e.idleTimeout {
				toClose = append(toClose, fd)
			}
		}
		e.connMu.RUnlock()

		for _, fd := range toClose {
			e.closeConnection(fd)
		}
	}
}

func appendInt(b []byte, i int) []byte {
	if i == 0 {
		return append(b, '0')
	}
	if i < 0 {
		b = append(b, '-')
		i = -i
	}
	var digits [20]byte
	n := 0
	for i > 0 {
		digits[n] = byte('0' + i%10)
		i /= 10
		n++
	}
	for n > 0 {
		n--
		b = append(b, digits[n])
	}
	return b
}
