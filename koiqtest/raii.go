// Package koiqtest provides test-only RAII-style wrappers around
// koiq.Sender and koiq.Receiver, the Go stand-in for the original
// project's KoiQueueRAII destructor-based cleanup: Go has no destructors,
// so cleanup is registered with testing.TB.Cleanup instead of run
// implicitly on scope exit.
package koiqtest

import (
	"testing"

	"github.com/koiq/koiq"
)

// NewRAIISender is like koiq.NewSender, but registers a Cleanup call with
// tb so the segment is unmapped and unlinked when the test finishes.
func NewRAIISender[T any](tb testing.TB, name string, userRegionBytes int) *koiq.Sender[T] {
	tb.Helper()
	s, err := koiq.NewSender[T](name, userRegionBytes)
	if err != nil {
		tb.Fatalf("koiqtest: NewRAIISender: %v", err)
	}
	tb.Cleanup(func() {
		if err := s.Cleanup(); err != nil {
			tb.Logf("koiqtest: RAII sender cleanup: %v", err)
		}
	})
	return s
}

// NewRAIIReceiver is like koiq.NewReceiver, but registers a Cleanup call
// with tb so the segment mapping is released when the test finishes. It
// never unlinks, matching Receiver's normal lifecycle rules.
func NewRAIIReceiver[T any](tb testing.TB, name string, userRegionBytes int) *koiq.Receiver[T] {
	tb.Helper()
	r, err := koiq.NewReceiver[T](name, userRegionBytes)
	if err != nil {
		tb.Fatalf("koiqtest: NewRAIIReceiver: %v", err)
	}
	tb.Cleanup(func() {
		if err := r.Close(); err != nil {
			tb.Logf("koiqtest: RAII receiver close: %v", err)
		}
	})
	return r
}
