package pools

import (
	"sync"
	"sync/atomic"
)

// ConnectionPool manages Connection object pooling. core/engine.go's
// Connection embeds a headparse.Request whose borrowed slices all point
// into a read buffer that's about to be reused by a different fd, so
// Reset has to happen before a pooled Connection is handed to anyone
// else -- that's what ConnectionPoolable enforces on Put.
type ConnectionPool struct {
	pool     sync.Pool
	gets     atomic.Uint64
	puts     atomic.Uint64
	capacity int
}

// ConnectionPoolable defines the interface for poolable connection
// objects: Reset clears any state tied to the previous fd (including
// borrowed parse output, which is only valid against the buffer of the
// connection that produced it) and SetFD assigns the new one.
type ConnectionPoolable interface {
	Reset()
	SetFD(fd int)
}

// NewConnectionPool creates a new connection pool
func NewConnectionPool(capacity int, newFunc func() any) *ConnectionPool {
	cp := &ConnectionPool{
		capacity: capacity,
	}

	cp.pool.New = newFunc

	return cp
}

// Get retrieves a connection from the pool
func (cp *ConnectionPool) Get() any {
	cp.gets.Add(1)
	obj := cp.pool.Get()
	return obj
}

// Put returns a connection to the pool
func (cp *ConnectionPool) Put(obj any) {
	if poolable, ok := obj.(ConnectionPoolable); ok {
		poolable.Reset()
	}
	cp.puts.Add(1)
	cp.pool.Put(obj)
}

// Stats returns pool statistics
func (cp *ConnectionPool) Stats() (gets, puts uint64, hitRate float64) {
	g := cp.gets.Load()
	p := cp.puts.Load()

	if g > 0 {
		hitRate = float64(p) / float64(g)
	}

	return g, p, hitRate
}
