package optimize

import "testing"

func TestWideLaneWidthConsistentWithCapability(t *testing.T) {
	if !HasWideLane() && WideLaneWidth() != 0 {
		t.Fatalf("WideLaneWidth() = %d with no wide lane detected", WideLaneWidth())
	}
	if HasWideLane() && WideLaneWidth() != 16 && WideLaneWidth() != 32 {
		t.Fatalf("WideLaneWidth() = %d, want 16 or 32", WideLaneWidth())
	}
}
