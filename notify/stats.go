// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package notify

import (
	"sync/atomic"
	"time"

	metrics "github.com/rcrowley/go-metrics"
)

// latencyReservoir is the number of samples the latency histogram keeps.
// Counters stay exact; Mean, Min and Max describe the reservoir.
const latencyReservoir = 1028

// Stats accumulates latency observations. The notifier callbacks write;
// readers may snapshot from any goroutine.
type Stats struct {
	frames  atomic.Uint64
	desyncs atomic.Uint64
	scrolls atomic.Uint64
	wakes   atomic.Uint64

	last    atomic.Int64
	latency metrics.Histogram
}

func newStats() *Stats {
	return &Stats{latency: metrics.NewHistogram(metrics.NewUniformSample(latencyReservoir))}
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Frames       uint64
	Desyncs      uint64
	ScrollFrames uint64
	Wakes        uint64
	Last         time.Duration
	Mean         time.Duration
	Min          time.Duration
	Max          time.Duration
}

// observe records one latency sample and returns the new frame count.
func (s *Stats) observe(d time.Duration) uint64 {
	s.last.Store(int64(d))
	s.latency.Update(int64(d))
	return s.frames.Add(1)
}

// Snapshot returns the current values.
func (s *Stats) Snapshot() Snapshot {
	h := s.latency.Snapshot()
	return Snapshot{
		Frames:       s.frames.Load(),
		Desyncs:      s.desyncs.Load(),
		ScrollFrames: s.scrolls.Load(),
		Wakes:        s.wakes.Load(),
		Last:         time.Duration(s.last.Load()),
		Mean:         time.Duration(h.Mean()),
		Min:          time.Duration(h.Min()),
		Max:          time.Duration(h.Max()),
	}
}
