// Package wizard drives multi-section data collection. A Controller tracks
// the current section and the accumulated field values, and hands the values
// to a submit function once the last section is passed.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNoSections       = errors.New("wizard needs at least one section")
	ErrUnknownField     = errors.New("unknown field")
	ErrUnsupportedValue = errors.New("unsupported field value")
	ErrAlreadySubmitted = errors.New("wizard already submitted")
	ErrSubmitInProgress = errors.New("wizard submission in progress")
)

// Section is one page of the wizard.
type Section struct {
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// State is a point-in-time copy of a Controller.
type State struct {
	Index     int     `json:"index"`
	Total     int     `json:"total"`
	Section   Section `json:"section"`
	Fields    Fields  `json:"fields"`
	Submitted bool    `json:"submitted"`
	// Submitting is true while the submit function runs.
	Submitting bool      `json:"submitting"`
	Sections   []Section `json:"sections,omitempty"`
}

// Controller is safe for concurrent use. Navigation is permissive: moving
// between sections never checks that fields are filled in.
type Controller struct {
	mu         sync.Mutex
	sections   []Section
	known      map[string]struct{}
	index      int
	fields     Fields
	submitted  bool
	submitting bool
}

// New starts a wizard at the first section. Field names are the union of
// every section's fields and the keys of initial.
func New(sections []Section, initial Fields) (*Controller, error) {
	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	c := &Controller{
		sections: sections,
		known:    make(map[string]struct{}),
		fields:   make(Fields, len(initial)),
	}
	for _, s := range sections {
		for _, f := range s.Fields {
			c.known[f] = struct{}{}
		}
	}
	for name, v := range initial {
		norm, err := normalize(v)
		if err != nil {
			return nil, fmt.Errorf("initial value for %q: %w", name, err)
		}
		c.known[name] = struct{}{}
		c.fields[name] = norm
	}
	return c, nil
}

// Set updates one field, whichever section it belongs to.
func (c *Controller) Set(name string, value any) error {
	return c.SetAll(map[string]any{name: value})
}

// SetAll updates several fields. Either every value is applied or none is.
// Fields are frozen while a submission runs.
func (c *Controller) SetAll(values map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return ErrSubmitInProgress
	}

	normalized := make(map[string]any, len(values))
	for name, v := range values {
		if _, ok := c.known[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		norm, err := normalize(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		normalized[name] = norm
	}
	for name, v := range normalized {
		c.fields[name] = v
	}
	return nil
}

// Next moves forward one section. At the last section it calls submit with a
// copy of the fields instead. The lock is not held while submit runs, so
// readers are not blocked; other changes are refused until it returns. A
// failed submit leaves the wizard untouched so it can be retried; a
// successful one closes it.
func (c *Controller) Next(ctx context.Context, submit func(context.Context, Fields) error) (bool, error) {
	c.mu.Lock()
	switch {
	case c.submitted:
		c.mu.Unlock()
		return false, ErrAlreadySubmitted
	case c.submitting:
		c.mu.Unlock()
		return false, ErrSubmitInProgress
	case c.index < len(c.sections)-1:
		c.index++
		c.mu.Unlock()
		return false, nil
	}
	c.submitting = true
	snapshot := c.fields.clone()
	c.mu.Unlock()

	err := submit(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		return false, err
	}
	c.submitted = true
	return true, nil
}

// Previous moves back one section, staying put at the first and while a
// submission runs.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index > 0 && !c.submitting {
		c.index--
	}
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Index:      c.index,
		Total:      len(c.sections),
		Section:    c.sections[c.index],
		Fields:     c.fields.clone(),
		Submitted:  c.submitted,
		Submitting: c.submitting,
	}
}

// Sections returns the wizard layout.
func (c *Controller) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// normalize restricts values to string, float64, bool and []string. Numbers
// and lists decoded from JSON are converted.
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case string, bool, float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		return f, nil
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: list item of type %T", ErrUnsupportedValue, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}
