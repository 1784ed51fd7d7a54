package flowgraph

// Buffer is a single-producer single-consumer window of byte symbols
// between two blocks.
type Buffer struct {
	data []byte
	head int // next unread symbol
	tail int // next free slot
	done bool
}

// NewBuffer allocates a buffer holding up to size symbols.
func NewBuffer(size int) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// Readable returns the symbols written but not yet consumed.
func (b *Buffer) Readable() []byte {
	return b.data[b.head:b.tail]
}

// Consume drops n symbols from the front of Readable.
func (b *Buffer) Consume(n int) {
	b.head += n
	if b.head == b.tail {
		b.head, b.tail = 0, 0
	}
}

// Writable returns all free space, moving unread symbols to the front first.
func (b *Buffer) Writable() []byte {
	if b.head > 0 {
		n := copy(b.data, b.data[b.head:b.tail])
		b.head, b.tail = 0, n
	}
	return b.data[b.tail:]
}

// Produce commits n symbols written into the front of Writable.
func (b *Buffer) Produce(n int) {
	b.tail += n
}

// Len returns the number of readable symbols.
func (b *Buffer) Len() int { return b.tail - b.head }

// Cap returns the buffer size.
func (b *Buffer) Cap() int { return len(b.data) }

// Close marks that the producer will write no more.
func (b *Buffer) Close() { b.done = true }

// Done reports whether the producer has closed the buffer.
func (b *Buffer) Done() bool { return b.done }
