// Package stepper tracks the current step of a multi-step flow. It clamps
// every transition to the valid range and leaves the decision of whether a
// transition is allowed to its caller.
package stepper

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSteps is returned when a sequencer is built with fewer than one step.
var ErrNoSteps = errors.New("stepper: at least one step is required")

// ProgressPolicy selects how Progress maps the current index to a fraction.
type ProgressPolicy int

const (
	// ProgressInclusive counts the current step as done: (index+1)/count.
	ProgressInclusive ProgressPolicy = iota
	// ProgressExclusive counts only the steps before the current one:
	// index/count.
	ProgressExclusive
)

// String returns the policy name used in definition files.
func (p ProgressPolicy) String() string {
	switch p {
	case ProgressExclusive:
		return "exclusive"
	default:
		return "inclusive"
	}
}

// ParseProgressPolicy maps "inclusive"/"exclusive" (case-insensitive) to a
// policy. The empty string selects ProgressInclusive.
func ParseProgressPolicy(raw string) (ProgressPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "inclusive", "after":
		return ProgressInclusive, nil
	case "exclusive", "before":
		return ProgressExclusive, nil
	default:
		return ProgressInclusive, fmt.Errorf("stepper: unknown progress policy %q", raw)
	}
}

// Sequencer holds a step index in [0, count-1].
type Sequencer struct {
	index  int
	count  int
	policy ProgressPolicy
}

// New returns a sequencer positioned on the first step.
func New(count int, policy ProgressPolicy) (*Sequencer, error) {
	if count < 1 {
		return nil, ErrNoSteps
	}
	return &Sequencer{count: count, policy: policy}, nil
}

// Index returns the current zero-based step.
func (s *Sequencer) Index() int { return s.index }

// Count returns the number of steps.
func (s *Sequencer) Count() int { return s.count }

// Policy returns the configured progress policy.
func (s *Sequencer) Policy() ProgressPolicy { return s.policy }

// IsFirst reports whether the sequencer is on step 0.
func (s *Sequencer) IsFirst() bool { return s.index == 0 }

// IsLast reports whether the sequencer is on the final step.
func (s *Sequencer) IsLast() bool { return s.index == s.count-1 }

// Advance moves one step forward, stopping at the last step.
func (s *Sequencer) Advance() int {
	return s.GoTo(s.index + 1)
}

// Retreat moves one step back, stopping at the first step.
func (s *Sequencer) Retreat() int {
	return s.GoTo(s.index - 1)
}

// GoTo jumps to index, clamped to the valid range.
func (s *Sequencer) GoTo(index int) int {
	s.index = s.Clamp(index)
	return s.index
}

// Clamp maps index into [0, count-1] without moving.
func (s *Sequencer) Clamp(index int) int {
	return max(0, min(index, s.count-1))
}

// Reset returns to the first step.
func (s *Sequencer) Reset() {
	s.index = 0
}

// Progress returns the completion fraction in [0, 1] for the current step.
func (s *Sequencer) Progress() float64 {
	return s.ProgressAt(s.index)
}

// ProgressAt returns the completion fraction for an arbitrary index.
func (s *Sequencer) ProgressAt(index int) float64 {
	index = s.Clamp(index)
	switch s.policy {
	case ProgressExclusive:
		return float64(index) / float64(s.count)
	default:
		return float64(index+1) / float64(s.count)
	}
}
