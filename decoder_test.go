package vp9

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalKeyFrame is a hand-assembled 64x64 lossless key frame: a single
// superblock, no segmentation, a single tile, and an all-zero compressed
// header and tile payload. The all-zero payload bytes are not a degenerate
// shortcut: with value starting at 0 and every padded bit 0, the
// arithmetic decoder's value stays 0 forever (0 < split always, by
// construction of split = 1 + (((rng-1)*prob)>>8)), so every ReadBool
// call decodes a 0 bit regardless of its probability. That deterministically
// means "no probability updates" in the compressed header and
// PartitionNone/DC_PRED/skip=false down the tile, which is exactly the
// frame this test asserts against.
var minimalKeyFrame = []byte{
	0x82, 0x49, 0x83, 0x42, 0x20, 0x03, 0xF0, 0x03, 0xF2, 0x00, 0x00, 0x00, 0x00, 0x02,
	0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

func TestParseFrameMinimalKeyFrame(t *testing.T) {
	d := NewDecoder()
	result, err := d.ParseFrame(minimalKeyFrame)
	require.NoError(t, err)

	assert.Equal(t, KeyFrame, result.Header.FrameType)
	assert.True(t, result.Header.ShowFrame)
	assert.False(t, result.Header.ErrorResilientMode)
	assert.Equal(t, 64, result.Header.FrameWidth)
	assert.Equal(t, 64, result.Header.FrameHeight)
	assert.Equal(t, 8, result.Header.MiCols)
	assert.Equal(t, 8, result.Header.MiRows)
	assert.Equal(t, 1, result.Header.Sb64Cols)
	assert.Equal(t, 1, result.Header.Sb64Rows)
	assert.True(t, result.Header.Lossless)
	assert.Equal(t, Only4x4, result.Header.TxMode)
	assert.False(t, result.Header.Segmentation.Enabled)

	require.Len(t, result.Blocks, 1)
	block := result.Blocks[0]
	assert.Equal(t, Block64x64, block.MiSize)
	assert.False(t, block.Skip)
	assert.False(t, block.IsInter)
	assert.Equal(t, Tx4x4, block.TxSize)
	assert.Equal(t, DcPred, block.YMode)
	assert.Equal(t, DcPred, block.UVMode)
	assert.Equal(t, IntraFrame, block.RefFrame[0])
	assert.Equal(t, NoneRef, block.RefFrame[1])
}

func TestParseFrameIsIdempotentOnFreshDecoder(t *testing.T) {
	d1 := NewDecoder()
	r1, err := d1.ParseFrame(minimalKeyFrame)
	require.NoError(t, err)

	d2 := NewDecoder()
	r2, err := d2.ParseFrame(minimalKeyFrame)
	require.NoError(t, err)

	assert.Equal(t, r1.Header, r2.Header)
	assert.Equal(t, r1.Blocks, r2.Blocks)
}

func TestParseFrameRejectsBadFrameMarker(t *testing.T) {
	d := NewDecoder()
	_, err := d.ParseFrame([]byte{0x00})
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptBitstream))
}

func TestParseFrameRejectsBadSyncCode(t *testing.T) {
	d := NewDecoder()
	// marker=10, profile=00, show_existing=0, frame_type=0 (key),
	// show_frame=1, error_resilient=0, then a deliberately wrong sync code.
	data := []byte{0x82, 0x00, 0x00, 0x00}
	_, err := d.ParseFrame(data)
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptBitstream))
}

func TestParseFrameRejectsReservedProfileBitByDefault(t *testing.T) {
	d := NewDecoder()
	// marker=10, profile_low=1, profile_high=1 (profile 3), reserved=1.
	data := []byte{0xB8}
	_, err := d.ParseFrame(data)
	require.Error(t, err)
	assert.True(t, IsKind(err, CorruptBitstream))
}

func TestParseFrameNonStrictReservedBitsSkipsTheCheck(t *testing.T) {
	d := NewDecoder(WithStrictReservedBits(false))
	data := []byte{0xB8}
	_, err := d.ParseFrame(data)
	require.Error(t, err)
	// The stream runs out of bits long before the reserved-bit violation
	// would have mattered; with strict checking off it never surfaces as
	// CorruptBitstream at all.
	assert.False(t, IsKind(err, CorruptBitstream))
	assert.True(t, IsKind(err, EndOfStream))
}

func TestParseFrameShowExistingFrame(t *testing.T) {
	d := NewDecoder()
	// marker=10, profile=00, show_existing_frame=1, frame_to_show_map_index=011.
	data := []byte{0x8B}
	result, err := d.ParseFrame(data)
	require.NoError(t, err)
	assert.True(t, result.Header.ShowExistingFrame)
	assert.Equal(t, 3, result.Header.FrameToShowMapIndex)
	assert.Empty(t, result.Blocks)
}

func TestParseFrameEnforcesMaxDimensions(t *testing.T) {
	d := NewDecoder(WithMaxDimensions(32, 32))
	_, err := d.ParseFrame(minimalKeyFrame)
	require.Error(t, err)
	assert.True(t, IsKind(err, InvalidDimensions))
}

func TestParseFrameKeyFrameSavesAllFourContextBanks(t *testing.T) {
	d := NewDecoder()
	_, err := d.ParseFrame(minimalKeyFrame)
	require.NoError(t, err)

	defaults := defaultProbabilitySet()
	for i := 0; i < 4; i++ {
		assert.Equal(t, defaults.SkipProb, d.probTables.saved[i].SkipProb)
	}
}

func TestParseFrameKeyFrameResetsFrameContextIdx(t *testing.T) {
	d := NewDecoder()
	result, err := d.ParseFrame(minimalKeyFrame)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Header.FrameContextIdx)
}
