package blocks

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/reedsolomon"
	"gopkg.in/yaml.v3"

	"hackdvbs2/flowgraph"
)

const manifestName = "manifest.yaml"

// ErrEmptyStream indicates the stream ended before any symbol arrived.
var ErrEmptyStream = errors.New("no data to shard")

// Manifest describes a shard set written by ShardSink.
type Manifest struct {
	Code         string   `yaml:"code"`
	Bits         int      `yaml:"bits"`
	Bytes        int      `yaml:"bytes"`
	DataShards   int      `yaml:"data_shards"`
	ParityShards int      `yaml:"parity_shards"`
	ShardSize    int      `yaml:"shard_size"`
	Files        []string `yaml:"files"`
}

// ShardSink packs the encoded bit stream into bytes and, when the stream
// ends, stores it as Reed-Solomon data and parity shards in dir.
type ShardSink struct {
	dir    string
	code   string
	rs     reedsolomon.Encoder
	data   int
	parity int
	packer bitPacker
	buf    []byte
	bits   int
}

// NewShardSink creates a sink writing dataShards+parityShards files to dir.
// code is recorded in the manifest.
func NewShardSink(dir string, dataShards, parityShards int, code string) (*ShardSink, error) {
	rs, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, fmt.Errorf("create RS encoder: %w", err)
	}
	return &ShardSink{dir: dir, code: code, rs: rs, data: dataShards, parity: parityShards}, nil
}

func (s *ShardSink) Name() string { return "shard-sink" }

func (s *ShardSink) Work(wio *flowgraph.WorkIO) error {
	s.buf = s.packer.pack(s.buf, wio.In)
	s.bits += len(wio.In)
	wio.Consumed = len(wio.In)

	if !wio.InputDone {
		return nil
	}
	s.buf = s.packer.flush(s.buf)
	if err := s.writeShards(); err != nil {
		return err
	}
	wio.Finished = true
	return nil
}

func (s *ShardSink) writeShards() error {
	if len(s.buf) == 0 {
		return ErrEmptyStream
	}
	size := len(s.buf)

	shards, err := s.rs.Split(s.buf)
	if err != nil {
		return fmt.Errorf("split data into shards: %w", err)
	}
	if err := s.rs.Encode(shards); err != nil {
		return fmt.Errorf("encode parity shards: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	m := Manifest{
		Code:         s.code,
		Bits:         s.bits,
		Bytes:        size,
		DataShards:   s.data,
		ParityShards: s.parity,
		ShardSize:    len(shards[0]),
	}
	for i, shard := range shards {
		name := fmt.Sprintf("shard-%02d", i)
		if err := os.WriteFile(filepath.Join(s.dir, name), shard, 0o644); err != nil {
			return err
		}
		m.Files = append(m.Files, name)
	}

	out, err := yaml.Marshal(&m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, manifestName), out, 0o644)
}

// LoadManifest reads the manifest of a shard set.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", manifestName, err)
	}
	return &m, nil
}

// JoinShards rebuilds the packed stream from a shard set, reconstructing up
// to ParityShards missing files.
func JoinShards(dir string) ([]byte, *Manifest, error) {
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, nil, err
	}
	rs, err := reedsolomon.New(m.DataShards, m.ParityShards)
	if err != nil {
		return nil, nil, fmt.Errorf("create RS encoder: %w", err)
	}

	shards := make([][]byte, len(m.Files))
	for i, name := range m.Files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		shards[i] = data
	}

	if err := rs.Reconstruct(shards); err != nil {
		return nil, nil, fmt.Errorf("reconstruct shards: %w", err)
	}
	var buf bytes.Buffer
	if err := rs.Join(&buf, shards, m.Bytes); err != nil {
		return nil, nil, fmt.Errorf("join shards: %w", err)
	}
	return buf.Bytes(), m, nil
}
