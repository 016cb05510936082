package vp9

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitBoolRejectsNonZeroMarkerBit(t *testing.T) {
	var bd BoolDecoder
	r := NewBitReader([]byte{0xFF, 0x00})
	err := bd.InitBool(r, 2)
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptBitstream))
}

func TestReadBoolAllZeroDataAlwaysDecodesZero(t *testing.T) {
	var bd BoolDecoder
	r := NewBitReader(make([]byte, 4))
	require.NoError(t, bd.InitBool(r, 4))

	// value starts at 0 and split = 1 + (((rng-1)*prob)>>8) is always >= 1,
	// so value < split holds forever when every padded bit is 0 as well -
	// the decoder can never take the bit=1 branch.
	for _, prob := range []uint8{1, 64, 128, 200, 254} {
		bit, err := bd.ReadBool(prob)
		require.NoError(t, err)
		assert.Equal(t, 0, bit)
	}
}

func TestReadLiteralAllZeroDataReturnsZero(t *testing.T) {
	var bd BoolDecoder
	r := NewBitReader(make([]byte, 4))
	require.NoError(t, bd.InitBool(r, 4))

	v, err := bd.ReadLiteral(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)
}

func TestReadBoolLowProbabilityFlipsOnceRangeRefills(t *testing.T) {
	var bd BoolDecoder
	r := NewBitReader([]byte{0x00, 0xFF, 0xFF, 0xFF})
	require.NoError(t, bd.InitBool(r, 4))

	// With an almost-always-1 probability, the first read still sees
	// value=0 and must decode 0, renormalizing in seven raw one-bits off
	// the following all-ones byte. The second read then has enough
	// accumulated value to flip to 1.
	bit, err := bd.ReadBool(1)
	require.NoError(t, err)
	assert.Equal(t, 0, bit)

	bit, err = bd.ReadBool(1)
	require.NoError(t, err)
	assert.Equal(t, 1, bit)
}

func TestReadTreePicksLeftmostLeafOnAllZeroData(t *testing.T) {
	var bd BoolDecoder
	r := NewBitReader(make([]byte, 4))
	require.NoError(t, bd.InitBool(r, 4))

	tree := []int8{0, -1}
	probs := []uint8{128}
	leaf, err := bd.ReadTree(tree, probs)
	require.NoError(t, err)
	assert.Equal(t, int8(0), leaf)
}

func TestExitBoolAdvancesToDeclaredSectionEnd(t *testing.T) {
	var bd BoolDecoder
	r := NewBitReader(make([]byte, 8))
	require.NoError(t, bd.InitBool(r, 4))
	require.NoError(t, bd.ExitBool())
	assert.Equal(t, int64(32), r.GetPosition())
}

func TestReadBoolPadsZerosPastDeclaredSection(t *testing.T) {
	var bd BoolDecoder
	// A single-byte section: InitBool's marker check already consumes the
	// whole declared payload, so every further ReadBool call must pad
	// with synthetic zero bits rather than erroring.
	r := NewBitReader([]byte{0x00})
	require.NoError(t, bd.InitBool(r, 1))

	for i := 0; i < 16; i++ {
		_, err := bd.ReadBool(128)
		require.NoError(t, err)
	}
}
