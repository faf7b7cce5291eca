// Package trace provides the machine's diagnostic logging surface,
// grounded on cli/runner.go's direct use of the standard "log" package
// (the retrieval pack carries no structured-logging dependency anywhere,
// so the standard library is the corpus's own idiom here).
package trace

import "log"

// Logger receives diagnostic output from emulation components: illegal
// register accesses, filesystem integrity findings, disk sync loss. It is
// deliberately narrow so components can be given a no-op implementation
// in tests without pulling in the standard logger.
type Logger interface {
	Tracef(format string, args ...any)
}

// Standard is a Logger backed by the standard library's log package,
// matching cli/runner.go's log.Printf call site.
type Standard struct{}

// Tracef implements Logger.
func (Standard) Tracef(format string, args ...any) { log.Printf(format, args...) }

// Discard is a Logger that drops everything, used by components and
// tests that have no interest in diagnostic output.
type Discard struct{}

// Tracef implements Logger.
func (Discard) Tracef(format string, args ...any) {}
