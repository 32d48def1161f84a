package domain

import (
	"time"

	"github.com/iho/billcycle/internal/calendar"
)

// DateKeySet is a set of YYYY-MM-DD keys used to reconcile expanded
// occurrences against postings already realized.
type DateKeySet map[string]struct{}

// NewDateKeySet builds a set from keys.
func NewDateKeySet(keys ...string) DateKeySet {
	s := make(DateKeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts the local date of t.
func (s DateKeySet) Add(t time.Time, loc *time.Location) {
	s[calendar.DateKeyIn(t, loc)] = struct{}{}
}

// Has reports whether the local date of t is present.
func (s DateKeySet) Has(t time.Time, loc *time.Location) bool {
	_, ok := s[calendar.DateKeyIn(t, loc)]
	return ok
}

// PostingDateKeys collects the local date keys of postings.
func PostingDateKeys(postings []*Posting, loc *time.Location) DateKeySet {
	s := make(DateKeySet, len(postings))
	for _, p := range postings {
		s.Add(p.Date, loc)
	}
	return s
}
