// Package hooks holds logrus hooks shared by the binaries.
package hooks

import (
	"runtime/debug"
	"strings"

	log "github.com/sirupsen/logrus"
)

// modulePathMarker is trimmed from stack frames so file:line is relative to the repo.
const modulePathMarker = "random-spanning-tree-approximation/"

type contextHook struct {
}

// NewContextHook returns a hook that annotates every entry with the
// file:line of the call site that produced it.
func NewContextHook() contextHook {
	return contextHook{}
}

func (hook contextHook) Levels() []log.Level {
	return log.AllLevels
}

func (hook contextHook) Fire(entry *log.Entry) error {
	if fileLine := callSite(string(debug.Stack())); fileLine != "" {
		entry.Data["file:line"] = fileLine
	}
	return nil
}

// callSite walks a debug.Stack() dump and returns the first frame location
// outside of logrus and this hook.
func callSite(stack string) string {
	lines := strings.Split(stack, "\n")
	// frames come in pairs: function line, then "\tfile:line +0x.." line.
	for i := 1; i+1 < len(lines); i += 2 {
		fn, loc := lines[i], lines[i+1]
		if strings.Contains(fn, "sirupsen/logrus") ||
			strings.Contains(fn, "runtime/debug") ||
			strings.Contains(loc, "context_hook.go:") {
			continue
		}
		loc = strings.TrimSpace(loc)
		if idx := strings.LastIndex(loc, " +0x"); idx >= 0 {
			loc = loc[:idx]
		}
		parts := strings.Split(loc, modulePathMarker)
		return parts[len(parts)-1]
	}
	return ""
}
