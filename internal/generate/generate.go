// Package generate enumerates candidate domain names from letter
// combinations, optional suffixes and TLDs.
package generate

import (
	"fmt"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// MaxLetters bounds the label length. Longer labels would enumerate more
// candidates than any run could check and overflow the total count.
const MaxLetters = 10

// Candidate is one assembled domain name plus the TLD bucket it belongs to.
type Candidate struct {
	Domain string
	TLD    string
}

type Options struct {
	// Letters is the label length; every a-z combination of this length
	// is produced.
	Letters int
	// Suffixes are appended between the label and the TLD. An empty
	// string means "no suffix"; an empty slice defaults to that.
	Suffixes []string
	// TLDs must carry a leading dot (see domain.NormalizeTLD).
	TLDs []string
}

// Sequence lazily yields candidates in a fixed order: labels ascend
// lexicographically, then suffixes and TLDs cycle in the order given.
// No candidate is produced twice.
type Sequence struct {
	opts Options

	label []byte // positions into alphabet
	si    int
	ti    int
	done  bool
}

func New(opts Options) (*Sequence, error) {
	if opts.Letters < 1 || opts.Letters > MaxLetters {
		return nil, fmt.Errorf("letters must be between 1 and %d", MaxLetters)
	}
	if len(opts.TLDs) == 0 {
		return nil, fmt.Errorf("at least one TLD is required")
	}
	if len(opts.Suffixes) == 0 {
		opts.Suffixes = []string{""}
	}
	s := &Sequence{opts: opts}
	s.Reset()
	return s, nil
}

// Total reports how many candidates the full sequence contains:
// 26^letters * len(suffixes) * len(tlds).
func (s *Sequence) Total() int {
	n := 1
	for i := 0; i < s.opts.Letters; i++ {
		n *= len(alphabet)
	}
	return n * len(s.opts.Suffixes) * len(s.opts.TLDs)
}

// Reset rewinds the sequence to its first candidate.
func (s *Sequence) Reset() {
	s.label = make([]byte, s.opts.Letters)
	s.si = 0
	s.ti = 0
	s.done = false
}

// Next returns the next candidate, or ok=false once the sequence is
// exhausted.
func (s *Sequence) Next() (Candidate, bool) {
	if s.done {
		return Candidate{}, false
	}

	tld := s.opts.TLDs[s.ti]
	c := Candidate{
		Domain: s.labelString() + s.opts.Suffixes[s.si] + tld,
		TLD:    tld,
	}
	s.advance()
	return c, true
}

func (s *Sequence) labelString() string {
	b := make([]byte, len(s.label))
	for i, p := range s.label {
		b[i] = alphabet[p]
	}
	return string(b)
}

func (s *Sequence) advance() {
	s.ti++
	if s.ti < len(s.opts.TLDs) {
		return
	}
	s.ti = 0

	s.si++
	if s.si < len(s.opts.Suffixes) {
		return
	}
	s.si = 0

	// Odometer over the label, rightmost position fastest.
	for i := len(s.label) - 1; i >= 0; i-- {
		s.label[i]++
		if int(s.label[i]) < len(alphabet) {
			return
		}
		s.label[i] = 0
	}
	s.done = true
}
