// Package flowgraph runs a linear chain of stream blocks. Each block is
// offered the readable part of its input buffer and the free part of its
// output buffer, and reports how much of each it used.
package flowgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"hackdvbs2/consts"
)

var (
	// ErrStalled indicates a full pass over the blocks made no progress.
	ErrStalled = errors.New("flowgraph stalled")
	// ErrNoBlocks indicates Run was called on an empty flowgraph.
	ErrNoBlocks = errors.New("flowgraph has no blocks")
	// ErrOverrun indicates a block reported more than its window held.
	ErrOverrun = errors.New("block overran its window")
)

// WorkIO is one scheduler call's view of a block's buffers.
type WorkIO struct {
	In        []byte // nil for sources
	InputDone bool   // upstream has finished; In is all that is left
	Out       []byte // nil for sinks

	Consumed int  // set by the block
	Produced int  // set by the block
	Finished bool // set by the block; it will not be called again
}

// Block is one stage of the flowgraph.
type Block interface {
	Name() string
	Work(wio *WorkIO) error
}

// Stats are per-block totals.
type Stats struct {
	Name     string
	Calls    int
	Consumed int
	Produced int
	Finished bool
}

// Flowgraph owns the blocks and the buffers between them.
type Flowgraph struct {
	logger  *log.Logger
	bufSize int
	blocks  []Block
	stats   []Stats
}

// New creates an empty flowgraph whose buffers hold bufSize symbols.
func New(logger *log.Logger, bufSize int) *Flowgraph {
	if logger == nil {
		logger = log.Default()
	}
	if bufSize <= 0 {
		bufSize = consts.DefaultBufferSize
	}
	return &Flowgraph{logger: logger, bufSize: bufSize}
}

// Connect appends blocks to the chain, each feeding the next.
func (fg *Flowgraph) Connect(blocks ...Block) *Flowgraph {
	fg.blocks = append(fg.blocks, blocks...)
	return fg
}

// Stats returns the totals of the last Run.
func (fg *Flowgraph) Stats() []Stats {
	return append([]Stats(nil), fg.stats...)
}

// Run calls the blocks in order until the last one finishes, a block fails,
// nothing moves, or ctx is done.
func (fg *Flowgraph) Run(ctx context.Context) error {
	n := len(fg.blocks)
	if n == 0 {
		return ErrNoBlocks
	}

	bufs := make([]*Buffer, n-1)
	for i := range bufs {
		bufs[i] = NewBuffer(fg.bufSize)
	}
	loggers := make([]*log.Logger, n)
	fg.stats = make([]Stats, n)
	for i, b := range fg.blocks {
		loggers[i] = fg.logger.With("block", b.Name())
		fg.stats[i].Name = b.Name()
	}

	fg.logger.Debug("flowgraph starting", "blocks", n, "buffer", fg.bufSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		progress := false
		for i, b := range fg.blocks {
			st := &fg.stats[i]
			if st.Finished {
				continue
			}

			var wio WorkIO
			if i > 0 {
				wio.In = bufs[i-1].Readable()
				wio.InputDone = bufs[i-1].Done()
			}
			if i < n-1 {
				wio.Out = bufs[i].Writable()
			}

			st.Calls++
			if err := b.Work(&wio); err != nil {
				loggers[i].Error("work failed", "err", err)
				return fmt.Errorf("%s: %w", b.Name(), err)
			}
			if wio.Consumed < 0 || wio.Consumed > len(wio.In) || wio.Produced < 0 || wio.Produced > len(wio.Out) {
				return fmt.Errorf("%s: %w: consumed %d of %d, produced %d of %d",
					b.Name(), ErrOverrun, wio.Consumed, len(wio.In), wio.Produced, len(wio.Out))
			}

			if i > 0 {
				bufs[i-1].Consume(wio.Consumed)
			}
			if i < n-1 {
				bufs[i].Produce(wio.Produced)
			}
			st.Consumed += wio.Consumed
			st.Produced += wio.Produced
			if wio.Consumed > 0 || wio.Produced > 0 {
				progress = true
			}

			if wio.Finished {
				st.Finished = true
				progress = true
				if i < n-1 {
					bufs[i].Close()
				}
				loggers[i].Debug("finished", "consumed", st.Consumed, "produced", st.Produced)
			}
		}

		if fg.stats[n-1].Finished {
			fg.logger.Info("flowgraph finished")
			return nil
		}
		if !progress {
			for i, buf := range bufs {
				loggers[i].Error("stalled", "buffered", buf.Len(), "done", buf.Done())
			}
			return ErrStalled
		}
	}
}
