package mpsc_test

import (
	"sync"
	"testing"

	"github.com/hioload/wsrt/mpsc"
)

func TestEmptyPopReturnsFalse(t *testing.T) {
	q := mpsc.New[int]()
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty queue returned ok=true")
	}
}

func TestSingleProducerFIFOOrder(t *testing.T) {
	q := mpsc.New[int]()
	for i := 0; i < 100; i++ {
		q.Push(i)
	}
	for i := 0; i < 100; i++ {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("Pop() = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("expected empty queue after draining all pushes")
	}
}

// TestConcurrentProducersNoLossNoDuplication exercises property 4 from
// spec.md §8: N producers each enqueueing K items, the consumer
// eventually dequeues exactly N*K items with no loss and no
// duplication.
func TestConcurrentProducersNoLossNoDuplication(t *testing.T) {
	const producers = 16
	const perProducer = 2000
	q := mpsc.New[int]()

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(base*perProducer + i)
			}
		}(p)
	}

	seen := make(map[int]bool, producers*perProducer)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	total := producers * perProducer
	for len(seen) < total {
		v, ok := q.Pop()
		if !ok {
			select {
			case <-done:
				if q.Empty() {
					continue
				}
			default:
			}
			continue
		}
		if seen[v] {
			t.Fatalf("duplicate value %d", v)
		}
		seen[v] = true
	}

	if len(seen) != total {
		t.Fatalf("collected %d values, want %d", len(seen), total)
	}
}

// TestPerProducerOrderPreserved exercises property 3: any two enqueues
// E1 before E2 by the same goroutine are dequeued in that order.
func TestPerProducerOrderPreserved(t *testing.T) {
	const producers = 8
	const perProducer = 5000
	q := mpsc.New[[2]int]() // [producerID, sequence]

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push([2]int{id, i})
			}
		}(p)
	}

	lastSeen := make([]int, producers)
	for i := range lastSeen {
		lastSeen[i] = -1
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	collected := 0
	total := producers * perProducer
	for collected < total {
		v, ok := q.Pop()
		if !ok {
			select {
			case <-done:
				if q.Empty() {
					continue
				}
			default:
			}
			continue
		}
		id, seq := v[0], v[1]
		if seq <= lastSeen[id] {
			t.Fatalf("producer %d: out-of-order sequence %d after %d", id, seq, lastSeen[id])
		}
		lastSeen[id] = seq
		collected++
	}
}
