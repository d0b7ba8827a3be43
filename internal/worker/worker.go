// Package worker runs pipeline invocations off the caller's goroutine
// behind an explicit request/response channel abstraction.
//
// The protocol is fire-and-forget: requests are queued, each runs to
// completion on a single worker goroutine, and there is deliberately no
// cancellation mechanism. A newer request never aborts an older one, so a
// caller that issues overlapping requests receives every response, in
// completion order rather than request order, and is responsible for
// discarding stale results.
package worker

import (
	"math/rand"
	"time"

	"github.com/ironsheep/pixelart-tools/internal/cluster"
	"github.com/ironsheep/pixelart-tools/internal/palette"
	"github.com/ironsheep/pixelart-tools/internal/pipeline"
	"github.com/ironsheep/pixelart-tools/internal/pixbuf"
)

// PixelateResult is the response to a Pixelate request.
type PixelateResult struct {
	Result *pipeline.Result
	Err    error
}

// SuggestResult is the response to a Suggest request.
type SuggestResult struct {
	Suggestions palette.Palette
	Err         error
}

type request struct {
	run func()
}

// Worker owns one goroutine that executes queued requests sequentially.
// Each request runs to completion without internal suspension; no state is
// shared across requests, so no locking is involved.
type Worker struct {
	requests chan request
	done     chan struct{}
	rng      *rand.Rand
}

// New starts a worker. queueDepth bounds how many requests may wait; a
// blocked Pixelate/Suggest call simply waits for queue space.
func New(queueDepth int) *Worker {
	if queueDepth < 1 {
		queueDepth = 1
	}
	w := &Worker{
		requests: make(chan request, queueDepth),
		done:     make(chan struct{}),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer close(w.done)
	for req := range w.requests {
		req.run()
	}
}

// Pixelate queues a conversion and returns a channel that delivers exactly
// one result. The request cannot be canceled once queued.
func (w *Worker) Pixelate(src *pixbuf.Buffer, settings pipeline.Settings) <-chan PixelateResult {
	out := make(chan PixelateResult, 1)
	w.requests <- request{run: func() {
		res, err := pipeline.RunWithRand(src, settings, w.rng)
		out <- PixelateResult{Result: res, Err: err}
	}}
	return out
}

// Suggest queues a palette suggestion request and returns a channel that
// delivers exactly one result.
func (w *Worker) Suggest(src *pixbuf.Buffer, existing palette.Palette, n int, preferDistinct bool) <-chan SuggestResult {
	out := make(chan SuggestResult, 1)
	w.requests <- request{run: func() {
		if err := src.Validate(); err != nil {
			out <- SuggestResult{Err: err}
			return
		}
		out <- SuggestResult{
			Suggestions: cluster.Suggest(src, existing, n, preferDistinct, w.rng),
		}
	}}
	return out
}

// Close stops accepting requests and waits for queued work to finish.
func (w *Worker) Close() {
	close(w.requests)
	<-w.done
}
