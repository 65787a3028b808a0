// errors.go collects errors surfaced by concurrent unit generation.
// Grounded on vslc's util/perror.go, which serializes panics/errors from
// concurrently running compiler passes onto one channel so the driver
// can report all of them instead of only the first one observed.

package driver

import (
	"fmt"
	"sort"
	"strings"
)

// unitError pairs a generation error with the unit that produced it, so
// the final report can be sorted back into a stable, deterministic order
// even though generation itself runs out of order (spec.md §5).
type unitError struct {
	index int
	name  string
	err   error
}

// errorCollector fans in unitErrors from any number of concurrent
// generator goroutines and renders them as one aggregate error.
type errorCollector struct {
	ch   chan unitError
	done chan struct{}
	errs []unitError
}

// newErrorCollector starts the collector's fan-in goroutine. Callers
// must call close() exactly once after every producer has stopped
// sending, then call err() for the aggregate result.
func newErrorCollector() *errorCollector {
	c := &errorCollector{
		ch:   make(chan unitError),
		done: make(chan struct{}),
	}
	go func() {
		for e := range c.ch {
			c.errs = append(c.errs, e)
		}
		close(c.done)
	}()
	return c
}

// report sends one unit's error, if any, to the collector. Safe to call
// from multiple goroutines.
func (c *errorCollector) report(index int, name string, err error) {
	if err == nil {
		return
	}
	c.ch <- unitError{index: index, name: name, err: err}
}

// close signals that no more errors will be reported and blocks until
// the fan-in goroutine has drained the channel.
func (c *errorCollector) close() {
	close(c.ch)
	<-c.done
}

// err returns nil if no unit reported an error, or an aggregate error
// listing every failure, sorted by original unit index for determinism.
func (c *errorCollector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	sort.Slice(c.errs, func(i, j int) bool { return c.errs[i].index < c.errs[j].index })

	var b strings.Builder
	fmt.Fprintf(&b, "%d unit(s) failed to generate:\n", len(c.errs))
	for _, e := range c.errs {
		fmt.Fprintf(&b, "  %s: %v\n", e.name, e.err)
	}
	return fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
}
