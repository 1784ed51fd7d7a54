package consts

const (
	FrameSizeNormal = 64800
	FrameSizeShort  = 16200
	FrameSizeMedium = 32400

	// BCH redundancy lengths, one per code family.
	ParityNormal12 = 192
	ParityNormal10 = 160
	ParityNormal8  = 128
	ParityShort12  = 168
	ParityMedium12 = 180

	// Packed register word width.
	WordBits = 32

	// BB scrambler PRBS 1+x^14+x^15, loaded with 100101010000000 at every BBFRAME.
	ScramblerInit = 0x4A80

	// Scheduler buffers must hold at least one normal frame of bit symbols.
	MinBufferSize     = FrameSizeNormal
	DefaultBufferSize = 128 * 1024

	// Bits per byte after unpacking, as in the demo pipeline.
	BitsPerByte = 8
)
