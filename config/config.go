// Package config holds the settings of an outer-encoder run, read from a
// YAML file and overridden from the command line.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hackdvbs2/consts"
	"hackdvbs2/dvbs2"
)

// Source kinds.
const (
	SourceRandom = "random"
	SourceFile   = "file"
)

// Sink kinds.
const (
	SinkConsole = "console"
	SinkFile    = "file"
	SinkShards  = "shards"
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid configuration")
)

// Shards configures the erasure-coded output.
type Shards struct {
	Data   int `yaml:"data"`
	Parity int `yaml:"parity"`
}

// Config is one run of the pipeline.
type Config struct {
	FrameSize  string `yaml:"frame_size"`
	CodeRate   string `yaml:"code_rate"`
	Source     string `yaml:"source"`
	Input      string `yaml:"input"`
	Seed       uint64 `yaml:"seed"`
	Head       int    `yaml:"head"` // bits after unpacking, 0 for no limit
	Scramble   bool   `yaml:"scramble"`
	Tail       string `yaml:"tail"`
	Sink       string `yaml:"sink"`
	Output     string `yaml:"output"`
	Packed     bool   `yaml:"packed"`
	Shards     Shards `yaml:"shards"`
	BufferSize int    `yaml:"buffer_size"`
	LogLevel   string `yaml:"log_level"`
}

// Default returns the demo run: one normal-frame rate 1/4 BBFRAME of
// random bits printed to the console.
func Default() Config {
	return Config{
		FrameSize:  dvbs2.FrameNormal.String(),
		CodeRate:   dvbs2.Rate1_4.String(),
		Source:     SourceRandom,
		Head:       16008,
		Tail:       dvbs2.TailError.String(),
		Sink:       SinkConsole,
		Shards:     Shards{Data: 4, Parity: 2},
		BufferSize: consts.DefaultBufferSize,
		LogLevel:   "info",
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Code resolves the frame size and code rate.
func (c Config) Code() (dvbs2.Code, error) {
	frame, err := dvbs2.ParseFrameSize(c.FrameSize)
	if err != nil {
		return dvbs2.Code{}, err
	}
	rate, err := dvbs2.ParseCodeRate(c.CodeRate)
	if err != nil {
		return dvbs2.Code{}, err
	}
	code, ok := dvbs2.Lookup(frame, rate)
	if !ok {
		return dvbs2.Code{}, fmt.Errorf("%w: %s frame, rate %s", dvbs2.ErrUnsupportedCode, frame, rate)
	}
	return code, nil
}

// TailPolicy parses the tail setting.
func (c Config) TailPolicy() (dvbs2.TailPolicy, error) {
	return dvbs2.ParseTailPolicy(c.Tail)
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if _, err := c.Code(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.TailPolicy(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	switch c.Source {
	case SourceRandom:
	case SourceFile:
		if c.Input == "" {
			return fmt.Errorf("%w: file source needs an input path", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	}

	if c.Head < 0 {
		return fmt.Errorf("%w: head must not be negative", ErrInvalid)
	}
	if c.Source == SourceRandom && c.Head == 0 && c.Sink == SinkShards {
		return fmt.Errorf("%w: shards sink needs a finite stream, set head", ErrInvalid)
	}

	switch c.Sink {
	case SinkConsole:
	case SinkFile, SinkShards:
		if c.Output == "" {
			return fmt.Errorf("%w: %s sink needs an output path", ErrInvalid, c.Sink)
		}
	default:
		return fmt.Errorf("%w: unknown sink %q", ErrInvalid, c.Sink)
	}
	if c.Sink == SinkShards && (c.Shards.Data <= 0 || c.Shards.Parity <= 0 || c.Shards.Data+c.Shards.Parity > 256) {
		return fmt.Errorf("%w: shard counts %d+%d", ErrInvalid, c.Shards.Data, c.Shards.Parity)
	}

	if c.BufferSize < consts.MinBufferSize {
		return fmt.Errorf("%w: buffer size %d is below %d", ErrInvalid, c.BufferSize, consts.MinBufferSize)
	}
	return nil
}
