package blocks

import (
	"hackdvbs2/consts"
	"hackdvbs2/flowgraph"
)

// Unpack turns each byte into 8 bit symbols, least significant bit first.
type Unpack struct{}

func (Unpack) Name() string { return "unpack" }

func (Unpack) Work(wio *flowgraph.WorkIO) error {
	n := min(len(wio.In), len(wio.Out)/consts.BitsPerByte)
	for i, b := range wio.In[:n] {
		bits := wio.Out[i*consts.BitsPerByte : (i+1)*consts.BitsPerByte]
		for j := range bits {
			bits[j] = (b >> j) & 1
		}
	}
	wio.Consumed = n
	wio.Produced = n * consts.BitsPerByte
	wio.Finished = wio.InputDone && n == len(wio.In)
	return nil
}

// Head passes the first n symbols and then finishes.
type Head struct {
	remaining int
}

// NewHead creates a Head that passes n symbols.
func NewHead(n int) *Head {
	return &Head{remaining: n}
}

func (h *Head) Name() string { return "head" }

func (h *Head) Work(wio *flowgraph.WorkIO) error {
	n := min(len(wio.In), len(wio.Out), h.remaining)
	copy(wio.Out, wio.In[:n])
	h.remaining -= n
	wio.Consumed = n
	wio.Produced = n
	wio.Finished = h.remaining == 0 || (wio.InputDone && n == len(wio.In))
	return nil
}

// bitPacker folds bit symbols into bytes, first bit in the MSB.
type bitPacker struct {
	acc   byte
	count int
}

// pack appends the bytes completed by bits to dst.
func (p *bitPacker) pack(dst []byte, bits []byte) []byte {
	for _, b := range bits {
		p.acc = p.acc<<1 | b&1
		p.count++
		if p.count == consts.BitsPerByte {
			dst = append(dst, p.acc)
			p.acc, p.count = 0, 0
		}
	}
	return dst
}

// flush appends a final partial byte, zero-padded at the LSB end.
func (p *bitPacker) flush(dst []byte) []byte {
	if p.count == 0 {
		return dst
	}
	dst = append(dst, p.acc<<(consts.BitsPerByte-p.count))
	p.acc, p.count = 0, 0
	return dst
}
