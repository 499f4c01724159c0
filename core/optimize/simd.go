// Package optimize detects CPU features at process start and exposes
// them as simple capability queries for the packages that can exploit
// them -- today, core/headparse's scanner, which uses the detected
// width to decide whether its wide-lane tier is reachable at all.
package optimize

import (
	"golang.org/x/sys/cpu"
)

var (
	hasWideLane   bool
	wideLaneWidth int
)

func init() {
	switch {
	case cpu.X86.HasAVX2:
		hasWideLane = true
		wideLaneWidth = 32
	case cpu.ARM64.HasASIMD:
		hasWideLane = true
		wideLaneWidth = 16
	}
}

// HasWideLane reports whether the process detected a CPU feature the
// scanner's wide-lane tier wants to exploit (AVX2 on amd64, ASIMD on
// arm64).
func HasWideLane() bool {
	return hasWideLane
}

// WideLaneWidth returns the byte width the scanner's wide-lane tier
// should process per iteration: 32 on amd64 with AVX2, 16 on arm64 with
// ASIMD, 0 if HasWideLane is false -- the tier is then skipped entirely
// and the word tier handles the whole scan.
func WideLaneWidth() int {
	if !hasWideLane {
		return 0
	}
	return wideLaneWidth
}
