// Package testutil collects small test-support helpers shared across the
// koiq test suites, adapted from the equivalent go-fuse package: verbose
// logging gated on an environment variable, and microsecond-precision log
// timestamps useful for reasoning about interleavings in the concurrent
// send/recv tests.
package testutil

import (
	"log"
	"os"
)

func init() {
	// Test failures involving interleaved sender/receiver goroutines are
	// far easier to read with sub-second timestamps than with the date.
	log.SetFlags(log.Lmicroseconds)
}

// Verbose returns true if the test run asked for chatty diagnostics via
// DEBUG=1, e.g. per-group logging in the cross-process-style tests.
func Verbose() bool {
	return os.Getenv("DEBUG") == "1"
}

// Logf logs via the standard logger only when Verbose reports true,
// keeping default test output quiet.
func Logf(format string, args ...interface{}) {
	if Verbose() {
		log.Printf(format, args...)
	}
}
