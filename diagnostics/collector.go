package diagnostics

import "sort"

// Collector accumulates diagnostics during a validation walk. It is
// append-only: records are never mutated or removed once added.
//
// A Collector is not safe for concurrent use; sharded walks give each
// shard its own Collector and Merge the batches afterward.
type Collector struct {
	diags []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{diags: make([]Diagnostic, 0, 16)}
}

// Add appends a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// Merge appends all diagnostics from other, preserving their order.
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	c.diags = append(c.diags, other.diags...)
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int { return len(c.diags) }

// HasErrors reports whether any error-severity diagnostic was collected.
// Warnings alone do not fail a document.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Diagnostics returns the collected records in insertion order.
// The returned slice is shared; callers must not modify it.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

// Errors returns only the error-severity diagnostics, in insertion order.
func (c *Collector) Errors() []Diagnostic {
	return c.filter(SeverityError)
}

// Warnings returns only the warning-severity diagnostics, in insertion order.
func (c *Collector) Warnings() []Diagnostic {
	return c.filter(SeverityWarning)
}

func (c *Collector) filter(s Severity) []Diagnostic {
	out := make([]Diagnostic, 0, len(c.diags))
	for _, d := range c.diags {
		if d.Severity == s {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders the diagnostics by JSON Pointer, then severity (errors
// first), then rule identifier. The sort is stable so diagnostics that tie
// on all three keys keep their emission order, which makes reports
// deterministic across serial and sharded walks.
func (c *Collector) Sort() {
	sort.SliceStable(c.diags, func(i, j int) bool {
		a, b := c.diags[i], c.diags[j]
		if a.Pointer != b.Pointer {
			return a.Pointer < b.Pointer
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		return a.Rule < b.Rule
	})
}
