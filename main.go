package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"hackdvbs2/blocks"
	"hackdvbs2/config"
	"hackdvbs2/dvbs2"
	"hackdvbs2/flowgraph"
	"hackdvbs2/utils"
)

// Bits per console line.
const consoleLineLen = 90

type options struct {
	cfg  config.Config
	list bool
	help bool
}

// parseArgs reads an optional config file and applies the flags the user set
// on top of it.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)

	def := config.Default()
	configPath := fs.StringP("config", "c", "", "YAML configuration file. Flags override its values.")
	frameSize := fs.StringP("frame-size", "f", def.FrameSize, "FECFRAME size: normal, short or medium.")
	rate := fs.StringP("rate", "r", def.CodeRate, "Code rate, e.g. 1/4, 2/3, 11/45-vlsnr-sf2. See --list.")
	source := fs.StringP("source", "s", def.Source, "Input: random or file.")
	input := fs.StringP("input", "i", "", "Input file for the file source, e.g. a transport stream.")
	seed := fs.Uint64("seed", def.Seed, "Seed of the random source.")
	head := fs.IntP("head", "n", def.Head, "Stop after this many input bits. 0 runs until the source ends.")
	scramble := fs.Bool("scramble", def.Scramble, "Apply BB scrambling before the BCH encoder.")
	tail := fs.String("tail", def.Tail, "Partial last frame: error, pad or drop.")
	sink := fs.StringP("sink", "o", def.Sink, "Output: console, file or shards.")
	output := fs.String("output", "", "Output file for the file sink, or directory for the shards sink.")
	packed := fs.Bool("packed", def.Packed, "File sink writes packed MSB-first bytes instead of one bit per byte.")
	dataShards := fs.Int("data-shards", def.Shards.Data, "Reed-Solomon data shards.")
	parityShards := fs.Int("parity-shards", def.Shards.Parity, "Reed-Solomon parity shards.")
	bufferSize := fs.Int("buffer-size", def.BufferSize, "Symbols buffered between blocks.")
	logLevel := fs.StringP("log-level", "l", def.LogLevel, "Log level: debug, info, warn or error.")

	var opts options
	fs.BoolVar(&opts.list, "list", false, "List the supported BCH codes and exit.")
	fs.BoolVarP(&opts.help, "help", "h", false, "Display help text.")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s - DVB-S2/S2X outer (BCH) encoder.\n", args[0])
		fmt.Fprintf(stderr, "\n")
		fmt.Fprintf(stderr, "Reads bits from a source, optionally BB-scrambles them, encodes each\n")
		fmt.Fprintf(stderr, "BBFRAME with the BCH code of the chosen frame size and rate, and writes\n")
		fmt.Fprintf(stderr, "the BCHFEC frames to a sink.\n")
		fmt.Fprintf(stderr, "\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		return opts, err
	}
	if opts.help {
		fs.Usage()
		return opts, nil
	}

	opts.cfg = def
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "cannot read config: %v\n", err)
			return opts, err
		}
		opts.cfg = cfg
	}

	// Only flags given on the command line replace file values.
	c := &opts.cfg
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "frame-size":
			c.FrameSize = *frameSize
		case "rate":
			c.CodeRate = *rate
		case "source":
			c.Source = *source
		case "input":
			c.Input = *input
		case "seed":
			c.Seed = *seed
		case "head":
			c.Head = *head
		case "scramble":
			c.Scramble = *scramble
		case "tail":
			c.Tail = *tail
		case "sink":
			c.Sink = *sink
		case "output":
			c.Output = *output
		case "packed":
			c.Packed = *packed
		case "data-shards":
			c.Shards.Data = *dataShards
		case "parity-shards":
			c.Shards.Parity = *parityShards
		case "buffer-size":
			c.BufferSize = *bufferSize
		case "log-level":
			c.LogLevel = *logLevel
		}
	})
	return opts, nil
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "hackdvbs2",
	}), nil
}

func listCodes(w io.Writer) {
	for _, c := range dvbs2.Codes() {
		fmt.Fprintf(w, "%-7s %-16s k=%-5d n=%-5d r=%-3d %s\n",
			c.Frame, c.Rate, c.K, c.N, c.Parity(), c.Family)
	}
}

// pipeline is a connected flowgraph plus the files it owns.
type pipeline struct {
	fg      *flowgraph.Flowgraph
	bch     *blocks.BCH
	closers []io.Closer
}

func (p *pipeline) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// buildPipeline wires source, unpack, head, scrambler, BCH encoder and sink.
func buildPipeline(cfg config.Config, logger *log.Logger, stdout io.Writer) (*pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	code, _ := cfg.Code()
	tail, _ := cfg.TailPolicy()

	p := &pipeline{}
	var chain []flowgraph.Block

	switch cfg.Source {
	case config.SourceRandom:
		chain = append(chain, blocks.NewRandomSource(cfg.Seed))
	case config.SourceFile:
		f, err := os.Open(cfg.Input)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, f)
		chain = append(chain, blocks.NewReaderSource(f))
	}

	chain = append(chain, blocks.Unpack{})
	if cfg.Head > 0 {
		chain = append(chain, blocks.NewHead(cfg.Head))
	}
	if cfg.Scramble {
		chain = append(chain, blocks.NewScrambler(code.K))
	}

	enc := dvbs2.NewBCHEncoderForCode(code, dvbs2.WithTailPolicy(tail))
	p.bch = blocks.NewBCH(enc, logger.With("block", "bch-encoder"))
	chain = append(chain, p.bch)

	switch cfg.Sink {
	case config.SinkConsole:
		chain = append(chain, blocks.NewConsoleSink(stdout, consoleLineLen))
	case config.SinkFile:
		f, err := os.Create(cfg.Output)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.closers = append(p.closers, f)
		chain = append(chain, blocks.NewWriterSink(f, cfg.Packed))
	case config.SinkShards:
		s, err := blocks.NewShardSink(cfg.Output, cfg.Shards.Data, cfg.Shards.Parity, code.String())
		if err != nil {
			p.Close()
			return nil, err
		}
		chain = append(chain, s)
	}

	p.fg = flowgraph.New(logger, cfg.BufferSize).Connect(chain...)
	return p, nil
}

func main() {
	opts, err := parseArgs(os.Args, os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if opts.help {
		os.Exit(0)
	}
	if opts.list {
		listCodes(os.Stdout)
		return
	}

	logger, err := newLogger(os.Stderr, opts.cfg.LogLevel)
	if err != nil {
		log.Fatal("bad log level", "err", err)
	}

	p, err := buildPipeline(opts.cfg, logger, os.Stdout)
	if err != nil {
		logger.Fatal("cannot build pipeline", "err", err)
	}

	ctx, cancel := utils.SignalContext(context.Background())
	defer cancel()

	code, _ := opts.cfg.Code()
	logger.Info("encoding", "code", code, "source", opts.cfg.Source, "sink", opts.cfg.Sink, "scramble", opts.cfg.Scramble)

	runErr := p.fg.Run(ctx)
	closeErr := p.Close()
	if runErr != nil {
		cancel()
		logger.Fatal("pipeline failed", "err", runErr)
	}
	if closeErr != nil {
		cancel()
		logger.Fatal("cannot close output", "err", closeErr)
	}
	logger.Info("done", "frames", p.bch.Frames())
}
