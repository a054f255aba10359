// Package aimlog hands out named, structured loggers for the intersection
// core, the way the teacher's logging package hands out named
// sub-loggers rather than a single global logger.
package aimlog

import "github.com/edaniels/golog"

// Logger is the structured logger every core package takes as an explicit
// dependency (never a package-level global — spec.md §9's objection to
// process-wide mutable state applies to logging too).
type Logger = golog.Logger

// New returns a named logger, e.g. New("tiling") or New("manager").
// Sub-loggers let log output be filtered or routed per subsystem without
// threading a logger hierarchy through every constructor by hand.
func New(name string) Logger {
	return golog.NewDebugLogger(name)
}

// Named returns a child logger scoped under parent with an additional
// name segment, mirroring golog's dotted logger names.
func Named(parent Logger, name string) Logger {
	return parent.Named(name)
}
