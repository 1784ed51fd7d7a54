package dvbs2

import (
	"hackdvbs2/consts"
	"hackdvbs2/utils"
)

// BBScrambler randomises BBFRAMEs of a fixed length before outer coding.
type BBScrambler struct {
	prbs []byte
}

// NewBBScrambler precomputes the PRBS for frames of frameBits bits.
func NewBBScrambler(frameBits int) *BBScrambler {
	prbs := make([]byte, frameBits)
	sr := uint16(consts.ScramblerInit)
	for i := range prbs {
		b := utils.Parity(sr & 0x3)
		prbs[i] = b
		sr >>= 1
		if b != 0 {
			sr |= 0x4000
		}
	}
	return &BBScrambler{prbs: prbs}
}

// FrameBits returns the frame length the scrambler was built for.
func (s *BBScrambler) FrameBits() int { return len(s.prbs) }

// Scramble XORs the PRBS into one frame of bit symbols in place. The
// sequence restarts for every frame, so the same call also descrambles.
// A short frame is scrambled over its own length.
func (s *BBScrambler) Scramble(frame []byte) {
	n := min(len(frame), len(s.prbs))
	for i := range frame[:n] {
		frame[i] ^= s.prbs[i]
	}
}
