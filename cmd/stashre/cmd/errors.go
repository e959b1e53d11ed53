package cmd

import (
	"strings"

	"github.com/corey/stashre/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when the pattern cache is held
// by another process, usually a running `stashre watch`.
func diagnoseDBLock(p *app.Paths) string {
	return "pattern cache is locked by another stashre process\n" +
		"  → a running `stashre watch` holds it; stop that first\n" +
		"  → or run without the cache:  set cache = false in " + p.Config
}
