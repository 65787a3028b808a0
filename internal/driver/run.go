// run.go is the driver's top-level pipeline, grounded on vslc's
// src/main.go run(opt) error: read inputs, fan work out across a bounded
// worker pool, fan results back in, report errors.

package driver

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"ncc/internal/astjson"
	"ncc/internal/codegen"
)

// Run executes one ncc invocation end to end: it decodes every path in
// opt.Srcs (or one unit from stdin if opt.Srcs is empty) into an
// ast.Unit, generates each unit's assembly concurrently (bounded by
// opt.Threads), and writes the concatenated result — in input order —
// to opt.Out, or stdout if opt.Out is empty.
//
// Each unit is generated with its own codegen.SymGen, so the parallel
// walks share no state (spec.md §5). Every unit's label counter starts
// at zero, so the same label names can appear in several units' text.
func Run(opt Options) error {
	srcs := opt.Srcs
	if len(srcs) == 0 {
		srcs = []string{"-"}
	}

	threads := opt.Threads
	if threads <= 0 {
		threads = DefaultThreads
	}
	if threads > maxThreads {
		threads = maxThreads
	}

	out, err := openOutput(opt.Out)
	if err != nil {
		return err
	}
	defer out.close()

	w := newSink(out.w)
	errs := newErrorCollector()

	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup

	for i, src := range srcs {
		i, src := i, src
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			text, genErr := generateOne(src)
			if genErr != nil {
				errs.report(i, src, genErr)
				return
			}
			w.send(i, text)
			if opt.Verbose {
				fmt.Fprintf(os.Stderr, "ncc: %s: generated in %s\n", displayName(src), time.Since(start))
			}
		}()
	}

	wg.Wait()
	writeErr := w.close()
	errs.close()

	if err := errs.err(); err != nil {
		return err
	}
	return writeErr
}

// generateOne decodes and generates a single unit.
func generateOne(src string) (string, error) {
	data, err := readInput(src)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", displayName(src), err)
	}
	unit, err := astjson.Decode(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", displayName(src), err)
	}
	text, err := codegen.GenCode(unit)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", displayName(src), err)
	}
	return text, nil
}

// readInput reads src's bytes, treating "-" as stdin.
func readInput(src string) ([]byte, error) {
	if src == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(src)
}

// displayName renders src for error messages and verbose logging.
func displayName(src string) string {
	if src == "-" {
		return "<stdin>"
	}
	return src
}

// outputTarget owns whatever io.Writer Run writes the final assembly
// to, closing the underlying file (if any) once Run is done.
type outputTarget struct {
	w io.Writer
	f *os.File
}

func openOutput(path string) (*outputTarget, error) {
	if path == "" {
		return &outputTarget{w: os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &outputTarget{w: f, f: f}, nil
}

func (o *outputTarget) close() {
	if o.f != nil {
		o.f.Close()
	}
}
