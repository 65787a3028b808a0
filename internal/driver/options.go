// options.go defines the driver's Options, the ambient configuration
// surface threaded through a compile run. Grounded on vslc's
// util/args.go Options struct, trimmed to the flags SPEC_FULL §4.8
// actually needs (no LLVM/token-stream/target-triple flags, since this
// repo has one fixed output target: the stack-VM assembly dialect).

package driver

// Options configures one invocation of the ncc driver.
type Options struct {
	Srcs    []string // Paths to JSON-encoded input units. A single "-" (or an empty slice) reads one unit from stdin.
	Out     string   // Path to output file; empty means stdout.
	Threads int      // Max number of units to generate concurrently (spec.md §5).
	Verbose bool     // Print per-unit statistics to stderr.
}

// maxThreads bounds -t the same way vslc's util/args.go bounds its own
// thread flag, to keep a single runaway invocation from fork-bombing the
// host.
const maxThreads = 64

// DefaultThreads is used when Options.Threads is left at its zero value.
const DefaultThreads = 1
