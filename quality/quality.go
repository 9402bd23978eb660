// Package quality defines the four-valued outcome of chunk validation and
// the sink interface used to report per-node findings without aborting
// the walk: ordered constants, an IsValid check, and a String method that
// falls back to a numeric rendering for anything unrecognized.
package quality

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/jonchammer/iff/path"
)

// Level is the four-valued ordering Invalid < Garbage < OK < Perfect.
// Composition of child levels always takes the minimum.
type Level int

const (
	Invalid Level = iota
	Garbage
	OK
	Perfect
)

// IsValid returns true if l is one of the four defined Level values.
func (l Level) IsValid() bool {
	return l >= Invalid && l <= Perfect
}

func (l Level) String() string {
	switch l {
	case Invalid:
		return "INVALID"
	case Garbage:
		return "GARBAGE"
	case OK:
		return "OK"
	case Perfect:
		return "PERFECT"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Min returns the lesser of a and b, used to compose a group's quality
// level from the levels of its children: a group is only as good as its
// worst child.
func Min(a, b Level) Level {
	return Level(slices.Min([]int{int(a), int(b)}))
}

// Combine folds Min across an arbitrary number of levels, starting from
// Perfect (the identity element for Min over this ordering).
func Combine(levels ...Level) Level {
	result := Perfect
	for _, l := range levels {
		result = Min(result, l)
	}
	return result
}

// A Finding is a single observation recorded by Sink.Report: a location,
// the quality level that location contributes, and a human-readable
// description.
type Finding struct {
	Path    path.Path
	Level   Level
	Message string
}

// A Sink receives validation findings as they are discovered, so that
// validation can report every problem it finds even when individual
// problems are non-fatal. Check still returns the overall minimum Level
// regardless of whether a Sink is supplied.
type Sink interface {
	Report(f Finding)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Finding)

// Report implements Sink.
func (f SinkFunc) Report(finding Finding) { f(finding) }

// DiscardSink is a Sink that ignores every finding. Useful when a caller
// only cares about the overall Level returned by Check.
var DiscardSink Sink = SinkFunc(func(Finding) {})

// CollectingSink accumulates every reported Finding in order, useful for
// tests and for callers who want to inspect the full validation report
// after the fact rather than reacting to findings as they arrive.
type CollectingSink struct {
	Findings []Finding
}

// Report implements Sink.
func (s *CollectingSink) Report(f Finding) {
	s.Findings = append(s.Findings, f)
}
