package blocks

import (
	"github.com/charmbracelet/log"

	"hackdvbs2/dvbs2"
	"hackdvbs2/flowgraph"
)

// Scrambler applies BB scrambling to whole frames of bit symbols. A short
// final frame is scrambled over its own length.
type Scrambler struct {
	s *dvbs2.BBScrambler
}

// NewScrambler creates a scrambler for frames of frameBits symbols.
func NewScrambler(frameBits int) *Scrambler {
	return &Scrambler{s: dvbs2.NewBBScrambler(frameBits)}
}

func (s *Scrambler) Name() string { return "bb-scrambler" }

func (s *Scrambler) Work(wio *flowgraph.WorkIO) error {
	k := s.s.FrameBits()
	n := min(len(wio.In), len(wio.Out))
	if !wio.InputDone || n < len(wio.In) {
		n -= n % k
	}
	copy(wio.Out, wio.In[:n])
	for off := 0; off < n; off += k {
		s.s.Scramble(wio.Out[off:n])
	}
	wio.Consumed = n
	wio.Produced = n
	wio.Finished = wio.InputDone && n == len(wio.In)
	return nil
}

// BCH runs the outer BCH encoder over the stream.
type BCH struct {
	enc     *dvbs2.BCHEncoder
	logger  *log.Logger
	frames  int
	dropped int
}

// NewBCH wraps enc as a flowgraph block.
func NewBCH(enc *dvbs2.BCHEncoder, logger *log.Logger) *BCH {
	if logger == nil {
		logger = log.Default()
	}
	return &BCH{enc: enc, logger: logger}
}

func (b *BCH) Name() string { return "bch-encoder" }

// Frames returns the number of frames encoded so far.
func (b *BCH) Frames() int { return b.frames }

func (b *BCH) Work(wio *flowgraph.WorkIO) error {
	p, err := b.enc.Work(wio.In, wio.Out, wio.InputDone)
	wio.Consumed = p.Consumed
	wio.Produced = p.Produced
	wio.Finished = p.Finished
	b.frames += p.Frames
	if p.Dropped > 0 {
		b.dropped += p.Dropped
		b.logger.Warn("dropped partial frame", "bits", p.Dropped, "k", b.enc.K())
	}
	if err != nil {
		return err
	}
	if p.Finished {
		b.logger.Info("encoding complete", "code", b.enc.Code().String(), "frames", b.frames)
	}
	return nil
}
