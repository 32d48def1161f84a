// Package recurrence expands RFC 5545 recurrence rules.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/iho/billcycle/internal/domain"
)

// Expander implements usecase.RecurrenceExpander with rrule-go. It is
// stateless and safe for concurrent use.
type Expander struct{}

// NewExpander creates a new Expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand returns the occurrences of rule anchored at anchor within [from, to]
// (or (from, to) when inclusive is false), ascending and truncated to the
// second. Occurrences are computed in anchor's location, so anchor should be
// expressed in the zone whose calendar the rule refers to.
func (e *Expander) Expand(rule string, anchor, from, to time.Time, inclusive bool) ([]time.Time, error) {
	if from.After(to) {
		return []time.Time{}, nil
	}

	r, err := build(rule, anchor)
	if err != nil {
		return nil, err
	}

	occurrences := r.Between(from, to, inclusive)
	out := make([]time.Time, 0, len(occurrences))
	for _, o := range occurrences {
		out = append(out, o.Truncate(time.Second))
	}

	return out, nil
}

// Validate checks that rule parses.
func (e *Expander) Validate(rule string) error {
	_, err := build(rule, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC))
	return err
}

func build(rule string, anchor time.Time) (*rrule.RRule, error) {
	rule = strings.TrimSpace(rule)
	rule = strings.TrimPrefix(rule, "RRULE:")
	if rule == "" {
		return nil, fmt.Errorf("%w: empty rule", domain.ErrRuleParse)
	}

	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleParse, err)
	}
	opt.Dtstart = anchor.Truncate(time.Second)

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleParse, err)
	}

	return r, nil
}
