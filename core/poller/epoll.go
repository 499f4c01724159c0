//go:build linux
// +build linux

package poller

import "syscall"

// EpollPoller is an epoll-based I/O multiplexer sized to the engine's
// own connection cap, so a fully loaded listener never has more ready
// fds in one Wait than the event buffer can hold.
type EpollPoller struct {
	epfd   int
	events []syscall.EpollEvent
}

// DefaultMaxEvents is the event buffer size NewPoller falls back to
// when given a non-positive maxEvents.
const DefaultMaxEvents = 1024

// NewPoller creates an epoll-based Poller (Linux) whose per-Wait event
// buffer holds up to maxEvents ready fds -- core/engine.go passes its
// own maxConnections so the buffer is exactly as large as the busiest
// possible accept set, never smaller and never padded.
func NewPoller(maxEvents int) (Poller, error) {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}

	epfd, err := syscall.EpollCreate1(0)
	if err != nil {
		return nil, err
	}

	return &EpollPoller{
		epfd:   epfd,
		events: make([]syscall.EpollEvent, maxEvents),
	}, nil
}

// Add registers fd for read readiness. Level-triggered (no EPOLLET) is
// deliberate: a connection left mid-message by an Incomplete result
// must keep firing until the rest of the head arrives, not just once
// at the edge of the first byte landing.
func (p *EpollPoller) Add(fd int) error {
	ev := syscall.EpollEvent{
		// EPOLLIN: read events. EPOLLRDHUP (0x2000): detect peer shutdown.
		Events: uint32(syscall.EPOLLIN) | uint32(0x2000),
		Fd:     int32(fd),
	}

	return syscall.EpollCtl(p.epfd, syscall.EPOLL_CTL_ADD, fd, &ev)
}

// Remove stops watching fd, called once core/engine.go has closed the
// connection and returned it to the connection pool.
func (p *EpollPoller) Remove(fd int) error {
	return syscall.EpollCtl(p.epfd, syscall.EPOLL_CTL_DEL, fd, nil)
}

// Wait blocks up to timeout milliseconds and returns the fds that are
// readable now.
func (p *EpollPoller) Wait(timeout int) ([]int, error) {
	n, err := syscall.EpollWait(p.epfd, p.events, timeout)
	if err != nil && err != syscall.EINTR {
		return nil, err
	}

	if n <= 0 {
		return nil, nil
	}

	fds := make([]int, 0, n)
	for i := 0; i < n; i++ {
		fds = append(fds, int(p.events[i].Fd))
	}

	return fds, nil
}

// Close closes the epoll fd itself, not any of the connection fds
// registered with it.
func (p *EpollPoller) Close() error {
	return syscall.Close(p.epfd)
}

// SetNonblock puts fd in non-blocking mode, required before handing a
// socket to the poller: a blocking Read on a connection that turns out
// to be Incomplete would stall the whole poll goroutine instead of
// returning control so the next readiness event can be serviced.
func SetNonblock(fd int) error {
	return syscall.SetNonblock(fd, true)
}
