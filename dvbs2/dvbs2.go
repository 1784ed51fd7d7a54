// Package dvbs2 implements the outer coding stage of DVB-S2 and DVB-S2X:
// baseband scrambling and the systematic BCH encoder for every standardized
// frame size and code rate.
package dvbs2

import "errors"

var (
	// ErrUnsupportedCode indicates a frame size and code rate pair with no BCH code.
	ErrUnsupportedCode = errors.New("unsupported frame size and code rate")
	// ErrTruncatedFrame indicates the input ended part way through a frame.
	ErrTruncatedFrame = errors.New("input ended inside a frame")
	// ErrUnknownName indicates a name that does not parse.
	ErrUnknownName = errors.New("unknown name")
)

// OuterEncoder runs a BBFRAME through scrambling and BCH coding.
type OuterEncoder struct {
	scrambler *BBScrambler
	bch       *BCHEncoder
	frame     []byte
}

// NewOuterEncoder creates an encoder for the given frame size and code rate.
func NewOuterEncoder(frame FrameSize, rate CodeRate) (*OuterEncoder, error) {
	bch, err := NewBCHEncoder(frame, rate)
	if err != nil {
		return nil, err
	}
	return &OuterEncoder{
		scrambler: NewBBScrambler(bch.K()),
		bch:       bch,
		frame:     make([]byte, bch.K()),
	}, nil
}

// EncodeBBFrame scrambles a Kbch-bit BBFRAME and returns the Nbch-bit
// BCH codeword. The input is not modified.
func (e *OuterEncoder) EncodeBBFrame(bbframe []byte) []byte {
	// 1. Scramble a copy of the BBFRAME
	copy(e.frame, bbframe[:e.bch.K()])
	e.scrambler.Scramble(e.frame)

	// 2. Append BCH parity
	out := make([]byte, e.bch.N())
	e.bch.EncodeFrame(e.frame, out)
	return out
}
