// writer.go multiplexes several concurrently generated units' assembly
// text into one output, in source order. Grounded on vslc's
// util/io.go ListenWrite/NewWriter channel fan-in, adapted two ways:
// this repo's units are strings returned directly by
// internal/codegen.GenCode rather than built up through a shared
// per-thread Writer value, and spec.md §5 requires the concatenated
// output preserve the unit list's original order even though
// generation completes out of order, so the sink reorders by index
// before writing instead of writing whatever arrives first.

package driver

import (
	"bufio"
	"container/heap"
	"io"
)

// unitOutput is one generated unit's text, tagged with its position in
// the original unit list.
type unitOutput struct {
	index int
	text  string
}

// outputHeap orders pending unitOutputs by index so sink can always
// drain the lowest-index one available.
type outputHeap []unitOutput

func (h outputHeap) Len() int            { return len(h) }
func (h outputHeap) Less(i, j int) bool  { return h[i].index < h[j].index }
func (h outputHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *outputHeap) Push(x interface{}) { *h = append(*h, x.(unitOutput)) }
func (h *outputHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// sink receives unitOutputs from concurrent generator goroutines and
// writes them to w in index order. newSink starts run in its own
// goroutine; callers deliver results with send, then call close once.
type sink struct {
	in   chan unitOutput
	done chan error
}

// newSink starts the fan-in goroutine writing to w.
func newSink(w io.Writer) *sink {
	s := &sink{
		in:   make(chan unitOutput),
		done: make(chan error, 1),
	}
	go s.run(w)
	return s
}

func (s *sink) run(w io.Writer) {
	bw := bufio.NewWriter(w)
	pending := &outputHeap{}
	heap.Init(pending)
	next := 0
	var firstErr error

	flushReady := func() error {
		for pending.Len() > 0 && (*pending)[0].index == next {
			item := heap.Pop(pending).(unitOutput)
			if _, err := bw.WriteString(item.text); err != nil {
				return err
			}
			next++
		}
		return nil
	}

	for out := range s.in {
		heap.Push(pending, out)
		if err := flushReady(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr == nil {
		firstErr = bw.Flush()
	}
	s.done <- firstErr
}

// send delivers one unit's text to the sink. Safe to call from any
// number of goroutines concurrently.
func (s *sink) send(index int, text string) {
	s.in <- unitOutput{index: index, text: text}
}

// close signals that no more units will arrive and returns the first
// write error encountered, if any.
func (s *sink) close() error {
	close(s.in)
	return <-s.done
}
