// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import "fmt"

// SetAffinity pins current OS thread to a given logical CPU/core on supported platforms.
// On unsupported platforms returns an error. The caller must have already locked the
// calling goroutine to its OS thread (runtime.LockOSThread); affinity set on an unlocked
// goroutine may migrate to a different thread on the next scheduling point.
func SetAffinity(cpuID int) error {
	if cpuID < 0 {
		return fmt.Errorf("affinity: invalid core index %d", cpuID)
	}
	return setAffinityPlatform(cpuID)
}

// CoreCount reports the number of logical CPUs available to this process, for
// callers choosing a core index to pass to SetAffinity.
func CoreCount() int {
	return coreCountPlatform()
}
