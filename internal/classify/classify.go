// Package classify maps raw API results to dispositions and persisted
// records. Pure functions, no I/O.
package classify

import (
	"combohunt/internal/godaddy"
	"combohunt/internal/store"
)

// Disposition is the outcome category for one checked domain.
type Disposition int

const (
	Taken Disposition = iota
	Available
	AvailableTentative
	AvailableTooExpensive
)

func (d Disposition) String() string {
	switch d {
	case Taken:
		return "taken"
	case Available:
		return "available"
	case AvailableTentative:
		return "available-tentative"
	case AvailableTooExpensive:
		return "available-too-expensive"
	default:
		return "unknown"
	}
}

// Classify decides the disposition for one result. maxPrice nil means no
// price ceiling. Exactly one disposition is produced for any input.
//
// A result with no price is never rejected on price: the ceiling only
// applies when the API actually quoted one.
func Classify(r godaddy.Result, maxPrice *float64) Disposition {
	if !r.Available {
		return Taken
	}
	if r.Price != nil && maxPrice != nil && *r.Price > *maxPrice {
		return AvailableTooExpensive
	}
	if !r.Definitive {
		return AvailableTentative
	}
	return Available
}

// Record converts a classified result into a persisted record. Only
// Available and AvailableTentative produce one; taken and over-budget
// domains are reported but never stored.
func Record(r godaddy.Result, d Disposition) (store.Record, bool) {
	switch d {
	case Available, AvailableTentative:
		return store.Record{
			Domain:    r.Domain,
			Price:     r.Price,
			Tentative: d == AvailableTentative,
		}, true
	default:
		return store.Record{}, false
	}
}
