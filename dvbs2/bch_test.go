package dvbs2

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// remainder divides a codeword, first symbol as the highest power, by g
// (x^0 first) using plain long division.
func remainder(codeword, g []byte) []byte {
	r := len(g) - 1
	c := append([]byte(nil), codeword...)
	for t := 0; t+r < len(c); t++ {
		if c[t] == 0 {
			continue
		}
		for i, gi := range g {
			c[t+r-i] ^= gi
		}
	}
	return c[len(c)-r:]
}

func randomBits(seed uint64, n int) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	bits := make([]byte, n)
	for i := range bits {
		bits[i] = byte(rng.IntN(2))
	}
	return bits
}

func mustEncoder(t testing.TB, frame FrameSize, rate CodeRate, opts ...Option) *BCHEncoder {
	t.Helper()
	e, err := NewBCHEncoder(frame, rate, opts...)
	require.NoError(t, err)
	return e
}

func TestNewBCHEncoderUnsupported(t *testing.T) {
	e, err := NewBCHEncoder(FrameShort, RateOther)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrUnsupportedCode)

	e, err = NewBCHEncoder(FrameMedium, Rate3_4)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrUnsupportedCode)
}

func TestEncodeZeroFrame(t *testing.T) {
	for _, c := range Codes() {
		t.Run(c.String(), func(t *testing.T) {
			e := NewBCHEncoderForCode(c)
			out := make([]byte, c.N)
			for i := range out {
				out[i] = 0xAA
			}
			e.EncodeFrame(make([]byte, c.K), out)
			assert.Equal(t, make([]byte, c.N), out)
		})
	}
}

func TestEncodeNormalQuarterRateRegression(t *testing.T) {
	// The demo pipeline: one frame of 16008 zero bits at normal 1/4.
	e := mustEncoder(t, FrameNormal, Rate1_4)
	require.Equal(t, 16008, e.K())
	require.Equal(t, 16200, e.N())

	out := make([]byte, 16200)
	p, err := e.Work(make([]byte, 16008), out, true)
	require.NoError(t, err)
	assert.Equal(t, Progress{Consumed: 16008, Produced: 16200, Frames: 1, Finished: true}, p)
	assert.Equal(t, make([]byte, 192), out[16008:])
}

func TestEncodeSingleBitGivesGenerator(t *testing.T) {
	// A lone 1 in the last information position is x^r, whose remainder is
	// g(x) without its leading term, emitted highest power first.
	for _, c := range Codes() {
		t.Run(c.String(), func(t *testing.T) {
			e := NewBCHEncoderForCode(c)
			info := make([]byte, c.K)
			info[c.K-1] = 1
			out := make([]byte, c.N)
			e.EncodeFrame(info, out)

			g := c.Generator()
			r := c.Parity()
			for j := 0; j < r; j++ {
				require.Equal(t, g[r-1-j], out[c.K+j], "parity bit %d", j)
			}
		})
	}
}

func TestEncodeAllOnesDivisible(t *testing.T) {
	for _, c := range Codes() {
		t.Run(c.String(), func(t *testing.T) {
			e := NewBCHEncoderForCode(c)
			info := make([]byte, c.K)
			for i := range info {
				info[i] = 1
			}
			out := make([]byte, c.N)
			e.EncodeFrame(info, out)

			assert.Equal(t, info, out[:c.K])
			assert.Equal(t, make([]byte, c.Parity()), remainder(out, c.Generator()))
		})
	}
}

func TestEncodeRandomDivisible(t *testing.T) {
	codes := Codes()

	rapid.Check(t, func(t *rapid.T) {
		c := rapid.SampledFrom(codes).Draw(t, "code")
		seed := rapid.Uint64().Draw(t, "seed")

		e := NewBCHEncoderForCode(c)
		info := randomBits(seed, c.K)
		out := make([]byte, c.N)
		e.EncodeFrame(info, out)

		assert.Equal(t, info, out[:c.K], "systematic")
		assert.Equal(t, make([]byte, c.Parity()), remainder(out, c.Generator()), "divisible by g(x)")

		again := make([]byte, c.N)
		e.EncodeFrame(info, again)
		assert.Equal(t, out, again, "deterministic")
	})
}

func TestEncodeIsLinear(t *testing.T) {
	e := mustEncoder(t, FrameShort, Rate1_2)
	k, n := e.K(), e.N()

	a, b := randomBits(1, k), randomBits(2, k)
	sum := make([]byte, k)
	for i := range sum {
		sum[i] = a[i] ^ b[i]
	}

	ca, cb, cs := make([]byte, n), make([]byte, n), make([]byte, n)
	e.EncodeFrame(a, ca)
	e.EncodeFrame(b, cb)
	e.EncodeFrame(sum, cs)
	for i := range cs {
		require.Equal(t, ca[i]^cb[i], cs[i], "bit %d", i)
	}
}

func TestWorkWholeFrames(t *testing.T) {
	e := mustEncoder(t, FrameMedium, Rate1_5Medium)
	k, n := e.K(), e.N()

	const m = 3
	in := randomBits(7, m*k)
	out := make([]byte, m*n)

	p, err := e.Work(in, out, false)
	require.NoError(t, err)
	assert.Equal(t, m*k, p.Consumed)
	assert.Equal(t, m*n, p.Produced)
	assert.Equal(t, m, p.Frames)
	assert.False(t, p.Finished, "upstream not done")

	for f := 0; f < m; f++ {
		frame := make([]byte, n)
		e.EncodeFrame(in[f*k:], frame)
		assert.Equal(t, frame, out[f*n:(f+1)*n], "frame %d", f)
	}

	p, err = e.Work(in[p.Consumed:], out[p.Produced:], true)
	require.NoError(t, err)
	assert.Equal(t, Progress{Finished: true}, p)
}

func TestWorkLeavesPartialFrame(t *testing.T) {
	e := mustEncoder(t, FrameShort, Rate1_4)
	k, n := e.K(), e.N()

	rapid.Check(t, func(t *rapid.T) {
		m := rapid.IntRange(0, 4).Draw(t, "m")
		j := rapid.IntRange(1, k-1).Draw(t, "j")

		in := make([]byte, m*k+j)
		out := make([]byte, (m+2)*n)
		p, err := e.Work(in, out, false)
		require.NoError(t, err)
		assert.Equal(t, m, p.Frames)
		assert.Equal(t, m*k, p.Consumed)
		assert.Equal(t, m*n, p.Produced)
		assert.False(t, p.Finished)
	})
}

func TestWorkLimitedByOutput(t *testing.T) {
	e := mustEncoder(t, FrameShort, Rate1_3)
	k, n := e.K(), e.N()

	in := make([]byte, 5*k)
	out := make([]byte, 2*n+n-1)
	p, err := e.Work(in, out, true)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Frames)
	assert.Equal(t, 2*k, p.Consumed)
	assert.Equal(t, 2*n, p.Produced)
	assert.False(t, p.Finished, "input left over")
}

func TestWorkNoFrameAvailable(t *testing.T) {
	e := mustEncoder(t, FrameNormal, Rate3_4)

	p, err := e.Work(nil, make([]byte, e.N()), false)
	require.NoError(t, err)
	assert.Equal(t, Progress{}, p)

	p, err = e.Work(make([]byte, e.K()), make([]byte, e.N()-1), false)
	require.NoError(t, err)
	assert.Equal(t, Progress{}, p)

	p, err = e.Work(nil, nil, true)
	require.NoError(t, err)
	assert.Equal(t, Progress{Finished: true}, p)
}

func TestWorkTailPolicies(t *testing.T) {
	c, ok := Lookup(FrameShort, Rate1_2)
	require.True(t, ok)
	k, n := c.K, c.N
	in := randomBits(3, k+10)

	t.Run("error", func(t *testing.T) {
		e := mustEncoder(t, FrameShort, Rate1_2)
		p, err := e.Work(in, make([]byte, 2*n), true)
		assert.ErrorIs(t, err, ErrTruncatedFrame)
		assert.Equal(t, 1, p.Frames)
		assert.False(t, p.Finished)

		// Not done yet: the tail simply waits.
		_, err = e.Work(in, make([]byte, 2*n), false)
		assert.NoError(t, err)
	})

	t.Run("drop", func(t *testing.T) {
		e := mustEncoder(t, FrameShort, Rate1_2, WithTailPolicy(TailDrop))
		p, err := e.Work(in, make([]byte, 2*n), true)
		require.NoError(t, err)
		assert.Equal(t, Progress{Consumed: k + 10, Produced: n, Frames: 1, Dropped: 10, Finished: true}, p)
	})

	t.Run("pad", func(t *testing.T) {
		e := mustEncoder(t, FrameShort, Rate1_2, WithTailPolicy(TailPad))
		out := make([]byte, 2*n)
		p, err := e.Work(in, out, true)
		require.NoError(t, err)
		assert.Equal(t, Progress{Consumed: k + 10, Produced: 2 * n, Frames: 2, Finished: true}, p)

		padded := make([]byte, k)
		copy(padded, in[k:])
		want := make([]byte, n)
		e.EncodeFrame(padded, want)
		assert.Equal(t, want, out[n:])
	})

	t.Run("pad waits for space", func(t *testing.T) {
		e := mustEncoder(t, FrameShort, Rate1_2, WithTailPolicy(TailPad))
		p, err := e.Work(in[k:], make([]byte, n-1), true)
		require.NoError(t, err)
		assert.Equal(t, Progress{}, p)
	})
}

func TestParseTailPolicy(t *testing.T) {
	for _, p := range []TailPolicy{TailError, TailPad, TailDrop} {
		got, err := ParseTailPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParseTailPolicy("truncate")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func BenchmarkEncodeNormalFrame(b *testing.B) {
	e := mustEncoder(b, FrameNormal, Rate1_2)
	info := randomBits(9, e.K())
	out := make([]byte, e.N())

	b.SetBytes(int64(e.K()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.EncodeFrame(info, out)
	}
}
