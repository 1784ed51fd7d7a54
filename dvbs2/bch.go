package dvbs2

import (
	"fmt"

	"hackdvbs2/consts"
)

// TailPolicy decides what happens to fewer than K bits left over when the
// input stream ends.
type TailPolicy int

const (
	// TailError fails the stream with ErrTruncatedFrame.
	TailError TailPolicy = iota
	// TailPad zero-fills the last frame up to K bits and encodes it.
	TailPad
	// TailDrop discards the leftover bits.
	TailDrop
)

var tailPolicyNames = map[TailPolicy]string{
	TailError: "error",
	TailPad:   "pad",
	TailDrop:  "drop",
}

func (p TailPolicy) String() string {
	if s, ok := tailPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("TailPolicy(%d)", int(p))
}

// ParseTailPolicy accepts "error", "pad" or "drop".
func ParseTailPolicy(s string) (TailPolicy, error) {
	for p, name := range tailPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: tail policy %q", ErrUnknownName, s)
}

// Progress reports what one Work call did.
type Progress struct {
	Consumed int  // input symbols, a multiple of K unless a tail was handled
	Produced int  // output symbols, always a multiple of N
	Frames   int  // frames encoded, including a padded tail
	Dropped  int  // tail symbols discarded under TailDrop
	Finished bool // input ended and nothing is left to encode
}

// BCHEncoder is the systematic BCH outer encoder for one code.
type BCHEncoder struct {
	code   Code
	poly   []uint32
	words  int
	tapW   int
	tapBit uint32
	tail   TailPolicy
}

// Option configures a BCHEncoder.
type Option func(*BCHEncoder)

// WithTailPolicy sets how a trailing partial frame is handled.
func WithTailPolicy(p TailPolicy) Option {
	return func(e *BCHEncoder) { e.tail = p }
}

// NewBCHEncoder creates an encoder for the given frame size and code rate.
// It returns ErrUnsupportedCode for combinations the standards do not define.
func NewBCHEncoder(frame FrameSize, rate CodeRate, opts ...Option) (*BCHEncoder, error) {
	code, ok := Lookup(frame, rate)
	if !ok {
		return nil, fmt.Errorf("%w: %s frame, rate %s", ErrUnsupportedCode, frame, rate)
	}
	return NewBCHEncoderForCode(code, opts...), nil
}

// NewBCHEncoderForCode creates an encoder for an already resolved code.
func NewBCHEncoderForCode(code Code, opts ...Option) *BCHEncoder {
	r := code.Parity()
	e := &BCHEncoder{
		code:   code,
		poly:   code.Family.packed(),
		words:  code.Words(),
		tapW:   (r - 1) / consts.WordBits,
		tapBit: 1 << (consts.WordBits - 1 - (r-1)%consts.WordBits),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Code returns the resolved configuration.
func (e *BCHEncoder) Code() Code { return e.code }

// K returns the number of information bits per frame.
func (e *BCHEncoder) K() int { return e.code.K }

// N returns the number of codeword bits per frame.
func (e *BCHEncoder) N() int { return e.code.N }

// EncodeFrame encodes K bit symbols from info into N bit symbols in out.
// Both slices must be at least that long.
func (e *BCHEncoder) EncodeFrame(info, out []byte) {
	e.encode(make([]uint32, e.words), info[:e.code.K], out[:e.code.N])
}

func (e *BCHEncoder) encode(reg []uint32, info, out []byte) {
	clear(reg)
	k := e.code.K

	copy(out, info)
	for _, b := range info {
		fb := b&1 ^ e.tap(reg)
		shift(reg)
		if fb != 0 {
			for i, p := range e.poly {
				reg[i] ^= p
			}
		}
	}

	for i := range out[k:] {
		out[k+i] = e.tap(reg)
		shift(reg)
	}
}

// tap reads the register bit holding the x^(r-1) coefficient.
func (e *BCHEncoder) tap(reg []uint32) byte {
	if reg[e.tapW]&e.tapBit != 0 {
		return 1
	}
	return 0
}

// shift moves the whole register one bit towards the tap.
func shift(reg []uint32) {
	for i := len(reg) - 1; i > 0; i-- {
		reg[i] = reg[i]>>1 | reg[i-1]<<31
	}
	reg[0] >>= 1
}

// Work encodes as many whole frames as fit in both in and out. inputDone
// reports that no more input will ever arrive after in.
func (e *BCHEncoder) Work(in, out []byte, inputDone bool) (Progress, error) {
	k, n := e.code.K, e.code.N
	frames := min(len(in)/k, len(out)/n)

	var p Progress
	if frames > 0 {
		reg := make([]uint32, e.words)
		for f := 0; f < frames; f++ {
			e.encode(reg, in[f*k:(f+1)*k], out[f*n:(f+1)*n])
		}
		p.Frames = frames
		p.Consumed = frames * k
		p.Produced = frames * n
	}

	left := len(in) - p.Consumed
	if inputDone && left > 0 && left < k {
		switch e.tail {
		case TailError:
			return p, fmt.Errorf("%w: %d of %d bits", ErrTruncatedFrame, left, k)
		case TailDrop:
			p.Consumed += left
			p.Dropped = left
		case TailPad:
			if len(out)-p.Produced >= n {
				info := make([]byte, k)
				copy(info, in[p.Consumed:])
				e.EncodeFrame(info, out[p.Produced:])
				p.Consumed += left
				p.Produced += n
				p.Frames++
			}
		}
	}

	p.Finished = inputDone && p.Consumed == len(in)
	return p, nil
}
