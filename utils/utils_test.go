package utils

import (
	"context"
	"math/bits"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParity(t *testing.T) {
	assert.Equal(t, byte(0), Parity(0))
	assert.Equal(t, byte(1), Parity(1))
	assert.Equal(t, byte(0), Parity(0x3))
	assert.Equal(t, byte(1), Parity(0x8000))

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Uint16().Draw(t, "n")
		assert.Equal(t, byte(bits.OnesCount16(n)&1), Parity(n))
	})
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 6, CeilDiv(192, 32))
	assert.Equal(t, 6, CeilDiv(168, 32))
	assert.Equal(t, 6, CeilDiv(180, 32))
	assert.Equal(t, 5, CeilDiv(160, 32))
	assert.Equal(t, 4, CeilDiv(128, 32))
}

func TestSignalContextCancel(t *testing.T) {
	ctx, cancel := SignalContext(context.Background())
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestSignalContextOnSIGTERM(t *testing.T) {
	ctx, cancel := SignalContext(context.Background())
	defer cancel()

	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatal(err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}
