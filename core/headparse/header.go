package headparse

// HeaderSlot is one (key, value) pair, both slices borrowed from the
// buffer a parse call was given. Key is never empty; Value may be.
type HeaderSlot struct {
	Key   []byte
	Value []byte
}

// parseHeader parses one "Key: Value<line-end>" line at the cursor.
func parseHeader(c *cursor) (HeaderSlot, Result) {
	keyStart := c.pos
	c.scanClass(headerKeyClass)
	keyEnd := c.pos

	b, ok := c.byteAtOrEOF()
	switch {
	case ok && b == ':':
		if keyEnd == keyStart {
			return HeaderSlot{}, Invalid
		}
		c.advance(1)
	case !ok:
		return HeaderSlot{}, Incomplete
	default:
		return HeaderSlot{}, Invalid
	}

	for {
		b, ok := c.byteAtOrEOF()
		if !ok {
			return HeaderSlot{}, Incomplete
		}
		if b != ' ' {
			break
		}
		c.advance(1)
	}

	valueStart := c.pos
	c.scanClass(headerValueClass)
	valueEnd := c.pos

	if r := consumeLineEnd(c); r != Success {
		return HeaderSlot{}, r
	}
	return HeaderSlot{Key: c.buf[keyStart:keyEnd], Value: c.buf[valueStart:valueEnd]}, Success
}

// parseHeaderBlock parses headers into the caller-provided slots slice
// until the terminating blank line, filling at most len(slots) entries.
// Running out of room before the blank line and garbage where a header
// or the blank line was expected both collapse to Invalid -- the
// caller's only recourse in either case is to close the connection or
// retry with a larger header array.
func parseHeaderBlock(c *cursor, slots []HeaderSlot) (int, Result) {
	count := 0
	for count < len(slots) {
		b, ok := c.byteAtOrEOF()
		if !ok {
			return count, Incomplete
		}
		if b == '\n' || b == '\r' {
			return count, consumeLineEnd(c)
		}

		slot, r := parseHeader(c)
		if r != Success {
			return count, r
		}
		slots[count] = slot
		count++
	}

	b, ok := c.byteAtOrEOF()
	if !ok {
		return count, Incomplete
	}
	if b != '\n' && b != '\r' {
		return count, Invalid
	}
	return count, consumeLineEnd(c)
}
