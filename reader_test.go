package vp9

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFReadsMSBFirst(t *testing.T) {
	r := NewBitReader([]byte{0b10110000})
	v, err := r.ReadF(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0b1011), v)
}

func TestReadFSpansByteBoundary(t *testing.T) {
	r := NewBitReader([]byte{0x00, 0xFF})
	v, err := r.ReadF(12)
	require.NoError(t, err)
	// 8 zero bits then 4 leading one bits of 0xFF.
	assert.Equal(t, uint32(0x00F), v)
}

func TestReadSAppliesSignBit(t *testing.T) {
	r := NewBitReader([]byte{0b10100000}) // magnitude 2 (bits "10"), sign bit "1"
	v, err := r.ReadS(2)
	require.NoError(t, err)
	assert.Equal(t, int32(-2), v)
}

func TestReadSPositive(t *testing.T) {
	r := NewBitReader([]byte{0b10000000}) // magnitude "10"=2, sign "0"
	v, err := r.ReadS(2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestReadByteDoesNotRequireByteAlignment(t *testing.T) {
	r := NewBitReader([]byte{0xAB})
	v, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), v)

	// A mid-byte ReadByte must succeed too: several real f(8) call sites
	// (frame_sync_code on profile 3, conditional probability bytes) are
	// not byte-aligned at the point they read.
	r = NewBitReader([]byte{0b10110101, 0b11010010})
	_, err = r.ReadF(3)
	require.NoError(t, err)
	v, err = r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0b10101110), v)
}

func TestAssertByteAlignedFailsMidByte(t *testing.T) {
	r := NewBitReader([]byte{0xFF})
	_, err := r.ReadF(3)
	require.NoError(t, err)
	err = r.AssertByteAligned()
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptBitstream))
}

func TestTrailingBitsStrictRejectsNonZeroPadding(t *testing.T) {
	r := NewBitReader([]byte{0b11110000})
	_, err := r.ReadF(3)
	require.NoError(t, err)
	err = r.TrailingBits(true)
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptBitstream))
}

func TestTrailingBitsStrictAcceptsZeroPadding(t *testing.T) {
	r := NewBitReader([]byte{0b11100000})
	_, err := r.ReadF(3)
	require.NoError(t, err)
	err = r.TrailingBits(true)
	require.NoError(t, err)
	assert.Equal(t, int64(8), r.GetPosition())
}

func TestTrailingBitsNonStrictAllowsNonZeroPadding(t *testing.T) {
	r := NewBitReader([]byte{0b11111111})
	_, err := r.ReadF(1)
	require.NoError(t, err)
	err = r.TrailingBits(false)
	require.NoError(t, err)
	assert.Equal(t, int64(8), r.GetPosition())
}

func TestBytesRemainingRoundsDownPartialByte(t *testing.T) {
	r := NewBitReader([]byte{0x00, 0x00, 0x00})
	_, err := r.ReadF(3)
	require.NoError(t, err)
	assert.Equal(t, 2, r.BytesRemaining())
}

func TestReservedZeroStrictRejectsSetBit(t *testing.T) {
	r := NewBitReader([]byte{0b10000000})
	err := r.ReservedZero(true, "test_reserved")
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptBitstream))
}

func TestReservedZeroNonStrictIgnoresSetBit(t *testing.T) {
	r := NewBitReader([]byte{0b10000000})
	err := r.ReservedZero(false, "test_reserved")
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.GetPosition())
}
