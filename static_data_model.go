package batchac

import (
	"cmp"
	"math"
	"slices"

	"github.com/pkg/errors"
)

// Entry is one bucket of a Model: a distinct symbol, how often it occurs and
// the top of its slice of the unit interval.
type Entry[S cmp.Ordered] struct {
	Symbol          S
	Count           int
	Probability     float64
	CumulativeUpper float64
}

// Lower returns the bottom of the entry's slice of the unit interval. It is
// always derived from the upper bound so the two cannot drift apart.
func (e Entry[S]) Lower() float64 {
	return e.CumulativeUpper - e.Probability
}

// Model is the static pmf/cdf of a finite sequence. Entries are sorted by
// ascending probability, equal probabilities by ascending symbol. Encoder and
// decoder walk this order to partition the interval, so it must never change
// once the model is built.
//
// A Model is immutable and may be shared between goroutines.
type Model[S cmp.Ordered] struct {
	entries []Entry[S]
	index   map[S]int
	length  int
}

// BuildModel counts the symbols of seq and returns their empirical model.
func BuildModel[S cmp.Ordered](seq []S) (*Model[S], error) {
	if len(seq) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "cannot build model of empty sequence")
	}

	counts := make(map[S]int)
	for _, s := range seq {
		counts[s]++
	}
	return newModel(counts, len(seq)), nil
}

// NewModelFromCounts rebuilds a model from per-symbol occurrence counts, e.g.
// counts transmitted alongside a codeword. The result is identical to the
// model BuildModel returns for any sequence with those counts.
func NewModelFromCounts[S cmp.Ordered](counts map[S]int) (*Model[S], error) {
	if len(counts) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "no symbol counts")
	}

	length := 0
	for s, c := range counts {
		if c < 1 {
			return nil, errors.Wrapf(ErrInvalidInput, "count %d for symbol %v", c, s)
		}
		length += c
	}

	// the map may belong to the caller
	own := make(map[S]int, len(counts))
	for s, c := range counts {
		own[s] = c
	}
	return newModel(own, length), nil
}

func newModel[S cmp.Ordered](counts map[S]int, length int) *Model[S] {
	m := &Model[S]{
		entries: make([]Entry[S], 0, len(counts)),
		index:   make(map[S]int, len(counts)),
		length:  length,
	}

	for s, c := range counts {
		m.entries = append(m.entries, Entry[S]{Symbol: s, Count: c})
	}

	// Probabilities share the denominator, so ordering by count is ordering
	// by probability without comparing floats.
	slices.SortFunc(m.entries, func(a, b Entry[S]) int {
		if a.Count != b.Count {
			return cmp.Compare(a.Count, b.Count)
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})

	sum := 0.0
	n := float64(length)
	for k := range m.entries {
		e := &m.entries[k]
		e.Probability = float64(e.Count) / n
		sum += e.Probability
		e.CumulativeUpper = sum
		m.index[e.Symbol] = k
	}

	// the running sum may stop short of 1 by an ulp or two
	last := len(m.entries) - 1
	m.entries[last].CumulativeUpper = 1.0
	return m
}

// Len returns the number of distinct symbols.
func (m *Model[S]) Len() int {
	return len(m.entries)
}

// Length returns the length of the sequence the model describes.
func (m *Model[S]) Length() int {
	return m.length
}

// Entries returns a copy of the entries in canonical order.
func (m *Model[S]) Entries() []Entry[S] {
	return slices.Clone(m.entries)
}

// Lookup returns the entry of symbol s.
func (m *Model[S]) Lookup(s S) (Entry[S], bool) {
	k, ok := m.index[s]
	if !ok {
		return Entry[S]{}, false
	}
	return m.entries[k], true
}

// Counts returns the occurrence count of every symbol. Passing the result to
// NewModelFromCounts reproduces the model.
func (m *Model[S]) Counts() map[S]int {
	counts := make(map[S]int, len(m.entries))
	for _, e := range m.entries {
		counts[e.Symbol] = e.Count
	}
	return counts
}

// Entropy returns the Shannon entropy of the model in bits per symbol.
func (m *Model[S]) Entropy() float64 {
	h := 0.0
	for _, e := range m.entries {
		h -= e.Probability * math.Log2(e.Probability)
	}
	return h
}

// Equal reports whether both models partition the interval identically.
func (m *Model[S]) Equal(other *Model[S]) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.length != other.length || len(m.entries) != len(other.entries) {
		return false
	}
	for k := range m.entries {
		if m.entries[k] != other.entries[k] {
			return false
		}
	}
	return true
}
