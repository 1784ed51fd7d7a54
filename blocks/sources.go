// Package blocks holds the sources, converters and sinks that surround the
// outer encoder in a flowgraph.
package blocks

import (
	"errors"
	"io"
	"math/rand/v2"

	"hackdvbs2/flowgraph"
)

// RandomSource produces pseudo-random bytes forever.
type RandomSource struct {
	rng     *rand.Rand
	pending uint64
	avail   int
}

// NewRandomSource creates a source seeded with seed. The same seed always
// yields the same stream, however the scheduler slices it.
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))}
}

func (s *RandomSource) Name() string { return "random-source" }

func (s *RandomSource) Work(wio *flowgraph.WorkIO) error {
	for i := range wio.Out {
		if s.avail == 0 {
			s.pending = s.rng.Uint64()
			s.avail = 8
		}
		wio.Out[i] = byte(s.pending)
		s.pending >>= 8
		s.avail--
	}
	wio.Produced = len(wio.Out)
	return nil
}

// ReaderSource streams bytes from r until EOF.
type ReaderSource struct {
	r io.Reader
}

// NewReaderSource wraps r, for example an opened transport stream file.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) Name() string { return "reader-source" }

func (s *ReaderSource) Work(wio *flowgraph.WorkIO) error {
	if len(wio.Out) == 0 {
		return nil
	}
	n, err := s.r.Read(wio.Out)
	wio.Produced = n
	if errors.Is(err, io.EOF) {
		wio.Finished = true
		return nil
	}
	return err
}
