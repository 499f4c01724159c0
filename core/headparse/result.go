package headparse

// Result is one of the three terminal outcomes a parse step (and the
// top-level ParseRequest / ParseResponse) can reach. There is no partial
// success: on anything but Success the output fields a caller already
// wrote to should be treated as unspecified.
type Result int

const (
	// Invalid means a byte was observed that no valid message could
	// contain at that position, or the header array ran out of room.
	Invalid Result = iota
	// Incomplete means every byte seen so far is consistent with a
	// valid message prefix; the caller should append bytes and retry.
	Incomplete
	// Success means the message head was parsed in full.
	Success
)

func (r Result) String() string {
	switch r {
	case Invalid:
		return "Invalid"
	case Incomplete:
		return "Incomplete"
	case Success:
		return "Success"
	default:
		return "Result(?)"
	}
}
