package bufpool_test

import (
	"sync"
	"testing"

	"github.com/hioload/wsrt/bufpool"
)

func TestAcquireReleaseReusesStorage(t *testing.T) {
	p := bufpool.New(128, 2)
	if got := p.Available(); got != 2 {
		t.Fatalf("Available() = %d, want 2", got)
	}

	b1 := p.Acquire()
	if got := p.Available(); got != 1 {
		t.Fatalf("Available() after one Acquire = %d, want 1", got)
	}
	b1.Release()
	if got := p.Available(); got != 2 {
		t.Fatalf("Available() after Release = %d, want 2", got)
	}
}

func TestExhaustionGrowsPool(t *testing.T) {
	p := bufpool.New(64, 1)
	b1 := p.Acquire()
	b2 := p.Acquire() // pool was exhausted, must allocate
	if got := p.Allocated(); got != 2 {
		t.Fatalf("Allocated() = %d, want 2", got)
	}
	b1.Release()
	b2.Release()
	if got := p.Available(); got != 2 {
		t.Fatalf("Available() after releasing both = %d, want 2", got)
	}
}

func TestDoubleReleaseIsSafe(t *testing.T) {
	p := bufpool.New(32, 1)
	b := p.Acquire()
	b.Release()
	b.Release()
	if got := p.Available(); got != 1 {
		t.Fatalf("Available() after double release = %d, want 1", got)
	}
}

// TestConcurrentAcquireReleaseNeverAliases exercises property 5 from
// spec.md §8: concurrent acquire/release never yields two handles over
// the same buffer simultaneously.
func TestConcurrentAcquireReleaseNeverAliases(t *testing.T) {
	p := bufpool.New(16, 4)
	const goroutines = 32
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(tag byte) {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				b := p.Acquire()
				data := b.Bytes()
				for j := range data {
					data[j] = tag
				}
				for j := range data {
					if data[j] != tag {
						t.Errorf("buffer contents mutated by another owner: want %d, got %d", tag, data[j])
						break
					}
				}
				b.Release()
			}
		}(byte(g + 1))
	}
	wg.Wait()
}
