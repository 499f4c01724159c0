//go:build darwin
// +build darwin

package poller

import "syscall"

// KqueuePoller is a kqueue-based I/O multiplexer, the darwin
// counterpart to EpollPoller: same readiness contract, same
// maxEvents-sized event buffer.
type KqueuePoller struct {
	kqfd   int
	events []syscall.Kevent_t
}

// DefaultMaxEvents is the event buffer size NewPoller falls back to
// when given a non-positive maxEvents.
const DefaultMaxEvents = 1024

// NewPoller creates a kqueue-based Poller (macOS) whose per-Wait event
// buffer holds up to maxEvents ready fds.
func NewPoller(maxEvents int) (Poller, error) {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}

	kqfd, err := syscall.Kqueue()
	if err != nil {
		return nil, err
	}

	return &KqueuePoller{
		kqfd:   kqfd,
		events: make([]syscall.Kevent_t, maxEvents),
	}, nil
}

// Add registers fd for read readiness, level-triggered (EV_ADD without
// EV_CLEAR) for the same reason EpollPoller.Add stays level-triggered:
// an Incomplete parse must see this fd fire again once more bytes land.
func (p *KqueuePoller) Add(fd int) error {
	ev := syscall.Kevent_t{
		Ident:  uint64(fd),
		Filter: syscall.EVFILT_READ,
		Flags:  syscall.EV_ADD | syscall.EV_ENABLE,
	}

	_, err := syscall.Kevent(p.kqfd, []syscall.Kevent_t{ev}, nil, nil)
	return err
}

// Remove stops watching fd.
func (p *KqueuePoller) Remove(fd int) error {
	ev := syscall.Kevent_t{
		Ident:  uint64(fd),
		Filter: syscall.EVFILT_READ,
		Flags:  syscall.EV_DELETE,
	}

	_, err := syscall.Kevent(p.kqfd, []syscall.Kevent_t{ev}, nil, nil)
	return err
}

// Wait blocks up to timeout milliseconds and returns the fds that are
// readable now.
func (p *KqueuePoller) Wait(timeout int) ([]int, error) {
	var ts *syscall.Timespec
	if timeout >= 0 {
		ts = &syscall.Timespec{
			Sec:  int64(timeout / 1000),
			Nsec: int64((timeout % 1000) * 1000000),
		}
	}

	n, err := syscall.Kevent(p.kqfd, nil, p.events, ts)
	if err != nil && err != syscall.EINTR {
		return nil, err
	}

	if n <= 0 {
		return nil, nil
	}

	fds := make([]int, 0, n)
	for i := 0; i < n; i++ {
		fds = append(fds, int(p.events[i].Ident))
	}

	return fds, nil
}

// Close closes the kqueue fd itself.
func (p *KqueuePoller) Close() error {
	return syscall.Close(p.kqfd)
}

// SetNonblock puts fd in non-blocking mode; see SetNonblock in epoll.go
// for why a blocking Read isn't an option here.
func SetNonblock(fd int) error {
	return syscall.SetNonblock(fd, true)
}
