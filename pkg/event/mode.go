package event

import (
	"fmt"
	"strings"
)

// Mode decides how Send orders handlers when a handler sends another event
// while it is running.
type Mode int

const (
	// BreadthFirst delays a nested event until every handler of the event
	// being processed has run. If a handler for A sends B, the remaining
	// handlers for A run before any handler for B. This is the default.
	BreadthFirst Mode = iota

	// DepthFirst delivers a nested event immediately. If a handler for A
	// sends B, every handler for B runs before the remaining handlers for A.
	DepthFirst
)

func (m Mode) String() string {
	switch m {
	case BreadthFirst:
		return "breadth_first"
	case DepthFirst:
		return "depth_first"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) valid() bool {
	return m == BreadthFirst || m == DepthFirst
}

// ParseMode accepts the names used in configuration files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breadth_first", "breadth-first", "breadthfirst", "bfs":
		return BreadthFirst, nil
	case "depth_first", "depth-first", "depthfirst", "dfs":
		return DepthFirst, nil
	default:
		return BreadthFirst, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}
