// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lockfree

import (
	"sync"
	"testing"
)

func TestQueueEmptyPop(t *testing.T) {
	q := New[int]()
	for i := 0; i < 3; i++ {
		if v, ok := q.Pop(); ok {
			t.Fatalf("Pop() on empty queue = (%d, true), want (0, false)", v)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueueFIFO(t *testing.T) {
	q := New[int]()
	for i := 0; i < 100; i++ {
		q.Push(i)
	}
	if q.Len() != 100 {
		t.Errorf("Len() = %d, want 100", q.Len())
	}
	for i := 0; i < 100; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop() #%d returned false", i)
		}
		if v != i {
			t.Fatalf("Pop() #%d = %d, want %d", i, v, i)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() after draining should return false")
	}
}

func TestQueueInterleaved(t *testing.T) {
	q := New[string]()
	q.Push("a")
	if v, _ := q.Pop(); v != "a" {
		t.Fatalf("Pop() = %q, want a", v)
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("second Pop() should be empty")
	}
	q.Push("b")
	q.Push("c")
	if v, _ := q.Pop(); v != "b" {
		t.Fatalf("Pop() = %q, want b", v)
	}
	q.Push("d")
	for _, want := range []string{"c", "d"} {
		if v, ok := q.Pop(); !ok || v != want {
			t.Fatalf("Pop() = (%q, %v), want (%q, true)", v, ok, want)
		}
	}
}

func TestQueueConcurrentProducerConsumer(t *testing.T) {
	const n = 10000
	q := New[int]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push(i)
		}
	}()

	next := 0
	for next < n {
		v, ok := q.Pop()
		if !ok {
			continue
		}
		if v != next {
			t.Fatalf("out of order: got %d, want %d", v, next)
		}
		next++
	}
	wg.Wait()

	if _, ok := q.Pop(); ok {
		t.Error("queue should be empty after consuming all values")
	}
}

func TestQueueMultipleProducers(t *testing.T) {
	const producers = 8
	const perProducer = 1000
	q := New[[2]int]()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push([2]int{p, i})
			}
		}(p)
	}
	wg.Wait()

	// Per-producer order must be preserved.
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	count := 0
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		if v[1] != last[v[0]]+1 {
			t.Fatalf("producer %d: got %d after %d", v[0], v[1], last[v[0]])
		}
		last[v[0]] = v[1]
		count++
	}
	if count != producers*perProducer {
		t.Errorf("popped %d values, want %d", count, producers*perProducer)
	}
}

func BenchmarkQueuePushPop(b *testing.B) {
	q := New[int]()
	b.ReportAllocs()
	for b.Loop() {
		q.Push(1)
		q.Pop()
	}
}

func TestQueueNilValues(t *testing.T) {
	q := New[error]()
	q.Push(nil)
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
	v, ok := q.Pop()
	if !ok || v != nil {
		t.Fatalf("Pop() = (%v, %v), want (nil, true)", v, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() after draining should return false")
	}
}
