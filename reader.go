package vp9

// BitReader is a random-access byte view with a bit cursor, generalized
// from boulder's Reader.readBit/f/leb128 trio: same big-endian bit-cursor
// approach, extended with signed reads, fixed-width 8/16/32-bit reads,
// position queries, and an EndOfStream error instead of a panic. Every read
// goes bit by bit; there is no byte-aligned fast path.
type BitReader struct {
	data     []byte
	bitIndex int64
}

// NewBitReader wraps a single frame payload. The caller slices container
// framing away before calling this; the reader never sees IVF/WebM
// structure.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

func (r *BitReader) bitLen() int64 {
	return int64(len(r.data)) * 8
}

// BytesRemaining reports whole bytes left after the current bit cursor,
// rounding down any partial byte.
func (r *BitReader) BytesRemaining() int {
	remaining := r.bitLen() - r.bitIndex
	if remaining <= 0 {
		return 0
	}
	return int(remaining / 8)
}

// GetPosition returns the absolute bit index of the cursor.
func (r *BitReader) GetPosition() int64 {
	return r.bitIndex
}

func (r *BitReader) readBit() (int, error) {
	if r.bitIndex >= r.bitLen() {
		return 0, newParseError(EndOfStream, r.bitIndex, "read_bit")
	}
	byteIdx := r.bitIndex / 8
	shift := uint(7 - (r.bitIndex % 8))
	bit := int((r.data[byteIdx] >> shift) & 1)
	r.bitIndex++
	return bit, nil
}

// ReadBit reads a single bit, 0 or 1.
func (r *BitReader) ReadBit() (int, error) {
	return r.readBit()
}

// ReadF reads an unsigned n-bit big-endian field, n<=32.
func (r *BitReader) ReadF(n int) (uint32, error) {
	var x uint32
	for i := 0; i < n; i++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		x = x<<1 | uint32(bit)
	}
	return x, nil
}

// ReadF8 reads an unsigned 8-bit field.
func (r *BitReader) ReadF8() (uint8, error) {
	v, err := r.ReadF(8)
	return uint8(v), err
}

// ReadF16 reads an unsigned 16-bit field.
func (r *BitReader) ReadF16() (uint16, error) {
	v, err := r.ReadF(16)
	return uint16(v), err
}

// ReadF32 reads an unsigned 32-bit field.
func (r *BitReader) ReadF32() (uint32, error) {
	return r.ReadF(32)
}

// ReadByte reads a raw 8-bit field (f(8)) at the current cursor position.
// Despite the name this does not require byte alignment: several VP9 f(8)
// reads (frame_sync_code on profile 3, the conditional segmentation/delta-q
// probability bytes) land on a bit-misaligned cursor, so an alignment check
// here would reject valid bitstreams. Call AssertByteAligned explicitly at
// the spec-mandated byte_alignment() points instead (booldecoder.go's
// InitBool does this before reading its marker byte).
func (r *BitReader) ReadByte() (byte, error) {
	v, err := r.ReadF(8)
	return byte(v), err
}

// ReadS reads an n-bit magnitude followed by a sign bit, returning a
// signed value.
func (r *BitReader) ReadS(n int) (int32, error) {
	value, err := r.ReadF(n)
	if err != nil {
		return 0, err
	}
	sign, err := r.readBit()
	if err != nil {
		return 0, err
	}
	if sign != 0 {
		return -int32(value), nil
	}
	return int32(value), nil
}

// AssertByteAligned fails unless the cursor sits on a byte boundary.
func (r *BitReader) AssertByteAligned() error {
	if r.bitIndex%8 != 0 {
		return newParseError(CorruptBitstream, r.bitIndex, "byte_alignment")
	}
	return nil
}

// TrailingBits consumes zero-padding to the next byte boundary; strict
// mode fails on any non-zero padding bit (spec.md §9 "Reserved-zero
// strictness").
func (r *BitReader) TrailingBits(strict bool) error {
	for r.bitIndex&7 != 0 {
		bit, err := r.readBit()
		if err != nil {
			return err
		}
		if strict && bit != 0 {
			return newParseError(CorruptBitstream, r.bitIndex-1, "trailing_bits")
		}
	}
	return nil
}

// ReservedZero consumes one bit; in strict mode it fails if the bit is
// non-zero. Non-strict mode still consumes the bit (spec.md §9).
func (r *BitReader) ReservedZero(strict bool, element string) error {
	bit, err := r.readBit()
	if err != nil {
		return err
	}
	if strict && bit != 0 {
		return newParseError(CorruptBitstream, r.bitIndex-1, element)
	}
	return nil
}

// byteAt returns the byte at absolute byte index idx, or 0 past the end
// (the arithmetic decoder pads zero bits past the payload per spec.md §9).
func (r *BitReader) byteAt(idx int64) byte {
	if idx < 0 || idx >= int64(len(r.data)) {
		return 0
	}
	return r.data[idx]
}
