package vp9

// BoolDecoder implements VP9's boolean (arithmetic) coder, layered over a
// BitReader the way spec.md §4.2 describes. It mirrors the init/read/exit
// scoped-acquisition shape of the original VP9 bitstream spec: init_bool
// consumes a first raw byte to seed BoolValue, then every subsequent
// renormalization step pulls one fresh raw bit at a time from the
// underlying BitReader (padding with zero bits once the declared section
// is exhausted, per spec.md §9), rather than refilling whole bytes — the
// same one-bit-at-a-time renormalization the VP9 spec itself prescribes.
type BoolDecoder struct {
	reader        *BitReader
	value         uint32
	rng           uint32
	maxBits       int64
	sectionStart  int64 // absolute bit index where this section began
	sectionLength int64 // declared section length in bytes
}

// InitBool takes the next length bytes of the underlying bit reader as
// the arithmetic payload; it fails on a zero length when the caller
// requires a payload (callers pass length==0 only for the degenerate
// show_existing_frame case, which never reaches here).
func (d *BoolDecoder) InitBool(r *BitReader, length int) error {
	if err := r.AssertByteAligned(); err != nil {
		return err
	}
	if length == 0 {
		return newParseError(CorruptBitstream, r.GetPosition(), "bool_decoder_size")
	}
	d.reader = r
	d.sectionStart = r.GetPosition()
	d.sectionLength = int64(length)

	firstByte, err := r.ReadByte()
	if err != nil {
		return err
	}
	d.value = uint32(firstByte)
	d.rng = 255
	d.maxBits = 8*int64(length) - 8

	marker, err := d.ReadBool(128)
	if err != nil {
		return err
	}
	if marker != 0 {
		return newParseError(CorruptBitstream, r.GetPosition(), "bool_decoder_marker_bit")
	}
	return nil
}

// ReadBool decodes one bit using the given 8-bit probability of a 0,
// per the standard split = 1 + (((range-1)*prob) >> 8) rule.
func (d *BoolDecoder) ReadBool(prob uint8) (int, error) {
	split := uint32(1) + (((d.rng - 1) * uint32(prob)) >> 8)

	var bit int
	if d.value < split {
		d.rng = split
		bit = 0
	} else {
		d.rng -= split
		d.value -= split
		bit = 1
	}

	for d.rng < 128 {
		var newBit int
		if d.maxBits > 0 {
			b, err := d.reader.readBit()
			if err != nil {
				return 0, err
			}
			newBit = b
			d.maxBits--
		}
		d.rng <<= 1
		d.value = d.value<<1 + uint32(newBit)
	}
	return bit, nil
}

// ReadLiteral reads an n-bit value, MSB first, each bit decoded via
// ReadBool(128).
func (d *BoolDecoder) ReadLiteral(n int) (uint32, error) {
	var x uint32
	for i := 0; i < n; i++ {
		bit, err := d.ReadBool(128)
		if err != nil {
			return 0, err
		}
		x = x<<1 | uint32(bit)
	}
	return x, nil
}

// ReadTree walks a VP9 binary tree (spec.md §4.5 shape: non-positive
// entries are leaves, negated) using per-node probabilities indexed by
// idx/2, returning the leaf value.
func (d *BoolDecoder) ReadTree(tree []int8, probs []uint8) (int8, error) {
	var idx int8
	for {
		bit, err := d.ReadBool(probs[idx>>1])
		if err != nil {
			return 0, err
		}
		node := tree[idx+int8(bit)]
		if node <= 0 {
			return -node, nil
		}
		idx = node
	}
}

// ExitBool advances the outer bit reader past the declared payload,
// regardless of how many bits the arithmetic coder actually consumed
// while renormalizing — unconsumed trailing bits in a bool-coded section
// are simply discarded, and tile arithmetic state never spans a boundary
// (spec.md §3 invariants). spec.md §4.2 phrases this step as exit() with
// a marker-bit check; this decoder instead checks the marker bit once up
// front in InitBool, matching libvpx's vpx_reader_init
// (`return vpx_read_bit(r) != 0`), so there is nothing left to verify
// here.
func (d *BoolDecoder) ExitBool() error {
	d.reader.bitIndex = d.sectionStart + 8*d.sectionLength
	return nil
}
