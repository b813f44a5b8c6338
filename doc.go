// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wrench is a frame-submission harness for the gg 2D renderer.
//
// # Overview
//
// wrench builds display lists on the host, submits them to an asynchronous
// renderer tagged with a strictly increasing epoch, and measures the
// round-trip latency between submission and the renderer's "frame ready"
// notification.
//
// The pipeline has five parts:
//   - timing: a lock-free FIFO of submission timestamps (submitter -> notifier)
//   - displaylist: immutable display lists and the scene builder
//   - api: the non-blocking render API client
//   - notify: the render notifier (latency accounting + host wake-up)
//   - extimage: external image resolution with lock/unlock/release lifecycle
//
// The renderer package is the engine shell: it runs the backend goroutine
// that turns display lists into frames, and composites frames with gg on the
// host goroutine.
//
// # Quick Start
//
//	r, sender, err := renderer.New(renderer.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	tx, rx := timing.New()
//	n := notify.New(rx, notify.WithWaker(sig))
//	r.SetRenderNotifier(n)
//
//	rapi := sender.CreateAPI()
//	rapi.SetRootPipeline(pipeline)
//	tx.PushNow()
//	err = rapi.SetRootDisplayList(&bg, 0, viewport, dl)
//
// # Logging
//
// All packages log through [Logger]. Output is disabled until [SetLogger]
// installs a logger.
package wrench

// Version is the current version of the harness.
const Version = "0.1.0"
