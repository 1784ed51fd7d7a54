package dvbs2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBScramblerSequence(t *testing.T) {
	s := NewBBScrambler(16)
	frame := make([]byte, 16)
	s.Scramble(frame)

	// First PRBS bytes after loading 100101010000000 are 0x03 0xF6.
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 1, 1, 0}, frame)
}

func TestBBScramblerSelfInverse(t *testing.T) {
	s := NewBBScrambler(3072)
	assert.Equal(t, 3072, s.FrameBits())

	original := randomBits(11, 3072)
	frame := append([]byte(nil), original...)

	s.Scramble(frame)
	assert.NotEqual(t, original, frame)
	s.Scramble(frame)
	assert.Equal(t, original, frame)
}

func TestBBScramblerRestartsEveryFrame(t *testing.T) {
	a := make([]byte, 100)
	b := make([]byte, 100)
	s := NewBBScrambler(100)
	s.Scramble(a)
	s.Scramble(b)
	assert.Equal(t, a, b)
}

func TestOuterEncoder(t *testing.T) {
	enc, err := NewOuterEncoder(FrameShort, Rate2_5)
	require.NoError(t, err)

	c, ok := Lookup(FrameShort, Rate2_5)
	require.True(t, ok)

	bbframe := randomBits(5, c.K)
	kept := append([]byte(nil), bbframe...)
	codeword := enc.EncodeBBFrame(bbframe)
	require.Len(t, codeword, c.N)
	assert.Equal(t, kept, bbframe, "input untouched")

	descrambled := append([]byte(nil), codeword[:c.K]...)
	NewBBScrambler(c.K).Scramble(descrambled)
	assert.Equal(t, bbframe, descrambled)
	assert.Equal(t, make([]byte, c.Parity()), remainder(codeword, c.Generator()))
}

func TestNewOuterEncoderUnsupported(t *testing.T) {
	_, err := NewOuterEncoder(FrameMedium, Rate9_10)
	assert.ErrorIs(t, err, ErrUnsupportedCode)
}

func TestParseNames(t *testing.T) {
	for _, f := range []FrameSize{FrameNormal, FrameShort, FrameMedium} {
		got, err := ParseFrameSize(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFrameSize("huge")
	assert.ErrorIs(t, err, ErrUnknownName)

	rates := CodeRates()
	assert.Len(t, rates, 50)
	for _, r := range rates {
		got, err := ParseCodeRate(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	got, err := ParseCodeRate(" 11/45-VLSNR-SF2 ")
	require.NoError(t, err)
	assert.Equal(t, Rate11_45VLSNRSF2, got)

	_, err = ParseCodeRate("7/8")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestFrameSizeBits(t *testing.T) {
	assert.Equal(t, 64800, FrameNormal.Bits())
	assert.Equal(t, 16200, FrameShort.Bits())
	assert.Equal(t, 32400, FrameMedium.Bits())
	assert.Equal(t, 0, FrameSize(9).Bits())
	assert.Equal(t, "FrameSize(9)", FrameSize(9).String())
}
