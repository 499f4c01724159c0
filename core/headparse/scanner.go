package headparse

import (
	"encoding/binary"
	"math/bits"

	"github.com/kairoslabs/headparse/core/optimize"
)

// scan advances from pos to the first byte in buf[pos:end) that fails
// class, or to end if every byte passes. It never reads past end and
// never returns an index past the first failing byte.
//
// Three tiers cooperate, from widest to narrowest. Each is free to stop
// early and hand off to the next (it just re-examines the same byte),
// but none may advance past a byte that fails the class -- scanWideTier,
// scanWordTier and scanScalarTier are tested independently against each
// other for exactly this property.
func scan(buf []byte, pos, end int, class *byteClass) int {
	if width := optimize.WideLaneWidth(); width >= 16 {
		pos = scanWideTier(buf, pos, end, class, width)
	}
	pos = scanWordTier(buf, pos, end, class)
	pos = scanScalarTier(buf, pos, end, class)
	return pos
}

// scanScalarTier is the byte-at-a-time fallback: consult the table for
// every byte. Always correct; the other two tiers exist purely to skip
// over long valid runs faster.
func scanScalarTier(buf []byte, pos, end int, class *byteClass) int {
	for pos < end {
		if !class.table[buf[pos]] {
			return pos
		}
		pos++
	}
	return pos
}

// scanWordTier processes one pointer-sized (8 byte) word at a time using
// the SWAR trick in byteClass.invalidMask: a single subtract-and-mask
// per word locates the first invalid lane without a branch per byte.
func scanWordTier(buf []byte, pos, end int, class *byteClass) int {
	for pos+8 <= end {
		word := binary.LittleEndian.Uint64(buf[pos : pos+8])
		if m := class.invalidMask(word); m != 0 {
			return pos + bits.TrailingZeros64(m)/8
		}
		pos += 8
	}
	return pos
}

// scanWideTier processes width bytes (16 or 32, from optimize.WideLaneWidth)
// at a time. Go has no portable way to issue a single vector compare
// across architectures without per-arch assembly, so this tier emulates
// the wide lane by chaining scanWordTier's word check across the whole
// width and only committing the advance once every word in it passed --
// functionally a vector load's "all lanes valid" fast path, expressed in
// portable Go. It is gated on optimize.HasWideLane so machines without a
// usable SIMD width fall straight through to scanWordTier.
func scanWideTier(buf []byte, pos, end int, class *byteClass, width int) int {
	for pos+width <= end {
		chunkStart := pos
		for off := 0; off < width; off += 8 {
			word := binary.LittleEndian.Uint64(buf[chunkStart+off : chunkStart+off+8])
			if m := class.invalidMask(word); m != 0 {
				return chunkStart + off + bits.TrailingZeros64(m)/8
			}
		}
		pos += width
	}
	return pos
}
