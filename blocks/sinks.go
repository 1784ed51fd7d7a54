package blocks

import (
	"bufio"
	"io"

	"hackdvbs2/flowgraph"
)

// ConsoleSink prints bit symbols as '0' and '1', lineLen per line.
type ConsoleSink struct {
	w       *bufio.Writer
	lineLen int
	col     int
}

// NewConsoleSink writes to w. A lineLen of zero prints one unbroken line.
func NewConsoleSink(w io.Writer, lineLen int) *ConsoleSink {
	return &ConsoleSink{w: bufio.NewWriter(w), lineLen: lineLen}
}

func (s *ConsoleSink) Name() string { return "console-sink" }

func (s *ConsoleSink) Work(wio *flowgraph.WorkIO) error {
	for _, b := range wio.In {
		if err := s.w.WriteByte('0' + b&1); err != nil {
			return err
		}
		s.col++
		if s.lineLen > 0 && s.col == s.lineLen {
			if err := s.w.WriteByte('\n'); err != nil {
				return err
			}
			s.col = 0
		}
	}
	wio.Consumed = len(wio.In)

	if wio.InputDone {
		if s.col > 0 {
			if err := s.w.WriteByte('\n'); err != nil {
				return err
			}
			s.col = 0
		}
		wio.Finished = true
	}
	return s.w.Flush()
}

// WriterSink writes the stream to w, either one byte per symbol or packed
// eight bit symbols per byte.
type WriterSink struct {
	w       io.Writer
	packed  bool
	packer  bitPacker
	scratch []byte
	written int
}

// NewWriterSink writes symbols to w. With packed set, a trailing partial
// byte is zero-padded when the stream ends.
func NewWriterSink(w io.Writer, packed bool) *WriterSink {
	return &WriterSink{w: w, packed: packed}
}

func (s *WriterSink) Name() string { return "writer-sink" }

// Written returns the number of bytes written so far.
func (s *WriterSink) Written() int { return s.written }

func (s *WriterSink) Work(wio *flowgraph.WorkIO) error {
	data := wio.In
	if s.packed {
		s.scratch = s.packer.pack(s.scratch[:0], wio.In)
		if wio.InputDone {
			s.scratch = s.packer.flush(s.scratch)
		}
		data = s.scratch
	}
	n, err := s.w.Write(data)
	s.written += n
	if err != nil {
		return err
	}
	wio.Consumed = len(wio.In)
	wio.Finished = wio.InputDone
	return nil
}
