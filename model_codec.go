package batchac

import (
	"bytes"
	"cmp"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// wireModel is the transmitted form of a Model: only the counts travel, the
// probabilities are recomputed on arrival.
type wireModel[S cmp.Ordered] struct {
	Length  int
	Symbols []S
	Counts  []int
}

// MarshalModel does msgpack encoding of the model counts.
func MarshalModel[S cmp.Ordered](m *Model[S]) ([]byte, error) {
	if m == nil || m.Len() == 0 {
		return nil, errors.Wrap(ErrInvalidModel, "nothing to marshal")
	}

	w := wireModel[S]{
		Length:  m.length,
		Symbols: make([]S, len(m.entries)),
		Counts:  make([]int, len(m.entries)),
	}
	for k, e := range m.entries {
		w.Symbols[k] = e.Symbol
		w.Counts[k] = e.Count
	}

	var buf bytes.Buffer
	encoder := codec.NewEncoder(&buf, &codec.MsgpackHandle{})
	if err := encoder.Encode(&w); err != nil {
		return nil, errors.Wrap(err, "unable to encode model")
	}
	return buf.Bytes(), nil
}

// UnmarshalModel decodes a model written by MarshalModel.
func UnmarshalModel[S cmp.Ordered](data []byte) (*Model[S], error) {
	var w wireModel[S]

	decoder := codec.NewDecoderBytes(data, &codec.MsgpackHandle{})
	if err := decoder.Decode(&w); err != nil {
		return nil, errors.Wrapf(ErrInvalidModel, "msgpack: %s", err)
	}

	if len(w.Symbols) != len(w.Counts) {
		return nil, errors.Wrapf(ErrInvalidModel, "%d symbols for %d counts", len(w.Symbols), len(w.Counts))
	}

	counts := make(map[S]int, len(w.Symbols))
	for k, s := range w.Symbols {
		if _, dup := counts[s]; dup {
			return nil, errors.Wrapf(ErrInvalidModel, "duplicate symbol %v", s)
		}
		counts[s] = w.Counts[k]
	}

	m, err := NewModelFromCounts(counts)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidModel, "%s", err)
	}
	if m.length != w.Length {
		return nil, errors.Wrapf(ErrInvalidModel, "counts sum to %d, header says %d", m.length, w.Length)
	}
	return m, nil
}
