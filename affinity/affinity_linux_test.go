//go:build linux
// +build linux

package affinity

import (
	"runtime"
	"testing"
)

func TestCoreCountIsPositive(t *testing.T) {
	if n := CoreCount(); n <= 0 {
		t.Fatalf("CoreCount() = %d, want > 0", n)
	}
}

func TestSetAffinityToCurrentCore(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := SetAffinity(0); err != nil {
		t.Fatalf("SetAffinity(0) = %v", err)
	}
}

func TestSetAffinityRejectsNegativeCore(t *testing.T) {
	if err := SetAffinity(-1); err == nil {
		t.Fatal("expected error for negative core index")
	}
}
