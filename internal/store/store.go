// Package store accumulates discovered domains per TLD and persists them
// atomically so an interrupted run never loses completed work.
package store

import (
	"encoding/json"
	"sort"
)

// Record is the persisted unit for one discovered-available domain.
type Record struct {
	Domain    string   `json:"domain"`
	Price     *float64 `json:"price,omitempty"`
	Tentative bool     `json:"tentative,omitempty"`
}

// Store maps a TLD (with leading dot) to an ordered, domain-deduplicated
// bucket of records. It is not safe for concurrent use; the scan loop is
// single-threaded by design.
type Store struct {
	buckets map[string][]Record
	index   map[string]map[string]int // tld -> domain -> slot in bucket
}

func New() *Store {
	return &Store{
		buckets: map[string][]Record{},
		index:   map[string]map[string]int{},
	}
}

// EnsureTLD creates an empty bucket so the persisted file lists every
// configured TLD even before anything is found under it.
func (s *Store) EnsureTLD(tld string) {
	if _, ok := s.buckets[tld]; ok {
		return
	}
	s.buckets[tld] = []Record{}
	s.index[tld] = map[string]int{}
}

// Upsert inserts the record, or replaces the existing record for the same
// domain in place. A domain appears at most once per TLD bucket.
func (s *Store) Upsert(tld string, rec Record) {
	s.EnsureTLD(tld)
	if slot, ok := s.index[tld][rec.Domain]; ok {
		s.buckets[tld][slot] = rec
		return
	}
	s.index[tld][rec.Domain] = len(s.buckets[tld])
	s.buckets[tld] = append(s.buckets[tld], rec)
}

// Merge unions other into s without dropping anything. Records already
// present in s win ties; everything else is appended in other's order.
// Used at startup to resume from a previously persisted state.
func (s *Store) Merge(other *Store) {
	if other == nil {
		return
	}
	for _, tld := range other.TLDs() {
		s.EnsureTLD(tld)
		for _, rec := range other.buckets[tld] {
			if _, ok := s.index[tld][rec.Domain]; ok {
				continue
			}
			s.index[tld][rec.Domain] = len(s.buckets[tld])
			s.buckets[tld] = append(s.buckets[tld], rec)
		}
	}
}

// Count reports the total number of records across all buckets.
func (s *Store) Count() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b)
	}
	return n
}

// TLDs returns the bucket keys in sorted order.
func (s *Store) TLDs() []string {
	out := make([]string, 0, len(s.buckets))
	for tld := range s.buckets {
		out = append(out, tld)
	}
	sort.Strings(out)
	return out
}

// Records returns the bucket for a TLD in insertion order.
func (s *Store) Records(tld string) []Record {
	b := s.buckets[tld]
	out := make([]Record, len(b))
	copy(out, b)
	return out
}

// MarshalJSON emits the on-disk shape: an object keyed by TLD, buckets in
// insertion order. encoding/json sorts map keys, so the output is
// deterministic for a given store.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.buckets)
}

func (s *Store) UnmarshalJSON(data []byte) error {
	var buckets map[string][]Record
	if err := json.Unmarshal(data, &buckets); err != nil {
		return err
	}
	*s = *New()
	for tld, recs := range buckets {
		s.EnsureTLD(tld)
		for _, rec := range recs {
			s.Upsert(tld, rec)
		}
	}
	return nil
}
