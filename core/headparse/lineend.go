package headparse

// consumeLineEnd accepts either a bare LF or a CR,LF pair at the cursor,
// advancing past whichever was found. A lone CR at the end of the
// available bytes is Incomplete, not Invalid: the next byte might still
// be the LF that completes it.
func consumeLineEnd(c *cursor) Result {
	b, ok := c.byteAtOrEOF()
	if !ok {
		return Incomplete
	}
	switch b {
	case '\n':
		c.advance(1)
		return Success
	case '\r':
		c.advance(1)
		b2, ok2 := c.byteAtOrEOF()
		if !ok2 {
			return Incomplete
		}
		if b2 == '\n' {
			c.advance(1)
			return Success
		}
		return Invalid
	default:
		return Invalid
	}
}
