// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package timing_test

import (
	"sync"
	"testing"
	"time"

	"github.com/gogpu/wrench/timing"
)

func TestPopEmpty(t *testing.T) {
	_, rx := timing.New()
	for i := 0; i < 2; i++ {
		if _, ok := rx.Pop(); ok {
			t.Fatalf("Pop() #%d on empty channel returned a record", i)
		}
	}
}

func TestPopTwiceAfterOnePush(t *testing.T) {
	tx, rx := timing.New()
	start := time.Unix(100, 0)
	tx.Push(start)

	got, ok := rx.Pop()
	if !ok {
		t.Fatal("first Pop() returned no record")
	}
	if !got.Equal(start) {
		t.Errorf("first Pop() = %v, want %v", got, start)
	}

	if _, ok := rx.Pop(); ok {
		t.Error("second Pop() should return no record")
	}
}

func TestFIFOOrder(t *testing.T) {
	tx, rx := timing.New()
	base := time.Unix(0, 0)
	for i := 0; i < 10; i++ {
		tx.Push(base.Add(time.Duration(i) * time.Millisecond))
	}
	if tx.Len() != 10 || rx.Len() != 10 {
		t.Errorf("Len() = (%d, %d), want (10, 10)", tx.Len(), rx.Len())
	}
	for i := 0; i < 10; i++ {
		got, ok := rx.Pop()
		if !ok {
			t.Fatalf("Pop() #%d returned no record", i)
		}
		want := base.Add(time.Duration(i) * time.Millisecond)
		if !got.Equal(want) {
			t.Fatalf("Pop() #%d = %v, want %v", i, got, want)
		}
	}
}

func TestPushNowMonotonic(t *testing.T) {
	tx, rx := timing.New()
	before := time.Now()
	tx.PushNow()
	got, ok := rx.Pop()
	if !ok {
		t.Fatal("Pop() returned no record")
	}
	if got.Before(before) {
		t.Errorf("PushNow recorded %v, before %v", got, before)
	}
}

func TestCrossGoroutine(t *testing.T) {
	const frames = 1000
	tx, rx := timing.New()
	base := time.Unix(0, 0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < frames; i++ {
			tx.Push(base.Add(time.Duration(i)))
		}
	}()

	for i := 0; i < frames; {
		got, ok := rx.Pop()
		if !ok {
			continue
		}
		if want := base.Add(time.Duration(i)); !got.Equal(want) {
			t.Fatalf("record %d = %v, want %v", i, got, want)
		}
		i++
	}
	wg.Wait()
}
