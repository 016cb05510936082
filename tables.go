package vp9

// Constants from spec.md §6, bit-exact with the VP9 bitstream
// specification.
const (
	MaxTileWidthB64 = 64
	MinTileWidthB64 = 4

	MaxSegments    = 8
	SegLvlMax      = 4
	SegLvlAltQ     = 0
	SegLvlAltL     = 1
	SegLvlRefFrame = 2
	SegLvlSkip     = 3

	SkipContexts         = 3
	InterModeContexts    = 7
	InterModes           = 4
	InterpFilterContexts = 4
	SwitchableFilters    = 3
	IsInterContexts      = 4
	CompModeContexts     = 5
	RefContexts          = 5
	BlockSizeGroups      = 4
	IntraModes           = 10
	PartitionContexts    = 16
	PartitionTypes       = 4
	MvJoints             = 4
	MvClasses            = 11
	MvOffsetBits         = 10
	Class0Size           = 2
	MvFrSize             = 4
	TxSizeContexts       = 2
	TxSizes              = 4
	RefsPerFrame         = 3
)

// Reference frame enum. None is the sentinel absence value; IntraFrame is
// the least reference value, used as a sentinel for intra blocks too.
type ReferenceFrame int8

const (
	NoneRef ReferenceFrame = iota - 1
	IntraFrame
	LastFrame
	GoldenFrame
	AltRefFrame
)

// FrameType distinguishes key frames (which always reset state) from
// inter-predicted frames.
type FrameType int

const (
	KeyFrame FrameType = iota
	NonKeyFrame
)

// ColorSpace enumerates the VP9 colour-space field, up to RGB.
type ColorSpace int

const (
	CsUnknown ColorSpace = iota
	CsBt601
	CsBt709
	CsSmpte170
	CsSmpte240
	CsBt2020
	CsReserved
	CsRGB
)

// ColorRange distinguishes studio-swing (limited) from full-swing levels.
type ColorRange int

const (
	StudioSwing ColorRange = iota
	FullSwing
)

// InterpolationFilter selects the sub-pixel interpolation kernel.
type InterpolationFilter int

const (
	EightTap InterpolationFilter = iota
	EightTapSmooth
	EightTapSharp
	Bilinear
	Switchable
)

// literalToType maps the 2-bit interpolation_filter literal to its
// InterpolationFilter value (spec.md §4.6 read_interpolation_filter).
var literalToType = [4]InterpolationFilter{
	EightTapSmooth,
	EightTap,
	EightTapSharp,
	Bilinear,
}

// TxSize enumerates the transform block sizes.
type TxSize int

const (
	Tx4x4 TxSize = iota
	Tx8x8
	Tx16x16
	Tx32x32
)

// TxMode selects how tx size is chosen per block.
type TxMode int

const (
	Only4x4 TxMode = iota
	Allow8x8
	Allow16x16
	Allow32x32
	TxModeSelect
)

// txModeToBiggestTxSize maps a frame's tx_mode to the largest TxSize it
// permits.
var txModeToBiggestTxSize = [5]TxSize{
	Tx4x4,
	Tx8x8,
	Tx16x16,
	Tx32x32,
	Tx32x32,
}

// ReferenceMode selects single/compound/select-per-block prediction.
type ReferenceMode int

const (
	SingleReference ReferenceMode = iota
	CompoundReference
	ReferenceModeSelect
)

// BlockSize enumerates the VP9 block partition sizes, 4x4 through 64x64.
type BlockSize int

const (
	Block4x4 BlockSize = iota
	Block4x8
	Block8x4
	Block8x8
	Block8x16
	Block16x8
	Block16x16
	Block16x32
	Block32x16
	Block32x32
	Block32x64
	Block64x32
	Block64x64
	BlockSizesCount
	BlockInvalid = BlockSizesCount
)

// Partition enumerates the quadtree partition symbol.
type Partition int8

const (
	PartitionNone Partition = iota
	PartitionHorizontal
	PartitionVertical
	PartitionSplit
)

// subsizeLookup[partition][block_subsize] gives the child block size
// produced by decode_partition.
var subsizeLookup = [4][BlockSizesCount]BlockSize{
	// PartitionNone
	{
		Block4x4, Block4x8, Block8x4, Block8x8, Block8x16, Block16x8,
		Block16x16, Block16x32, Block32x16, Block32x32, Block32x64,
		Block64x32, Block64x64,
	},
	// PartitionHorizontal
	{
		BlockInvalid, BlockInvalid, BlockInvalid, Block8x4, BlockInvalid,
		BlockInvalid, Block16x8, BlockInvalid, BlockInvalid, Block32x16,
		BlockInvalid, BlockInvalid, Block64x32,
	},
	// PartitionVertical
	{
		BlockInvalid, BlockInvalid, BlockInvalid, Block4x8, BlockInvalid,
		BlockInvalid, Block8x16, BlockInvalid, BlockInvalid, Block16x32,
		BlockInvalid, BlockInvalid, Block32x64,
	},
	// PartitionSplit
	{
		BlockInvalid, BlockInvalid, BlockInvalid, Block4x4, BlockInvalid,
		BlockInvalid, Block8x8, BlockInvalid, BlockInvalid, Block16x16,
		BlockInvalid, BlockInvalid, Block32x32,
	},
}

// num8x8BlocksWideLookup / num8x8BlocksHighLookup give a block's footprint
// in 8x8 mode-info units.
var num8x8BlocksWideLookup = [BlockSizesCount]int{1, 1, 1, 1, 1, 2, 2, 2, 4, 4, 4, 8, 8}
var num8x8BlocksHighLookup = [BlockSizesCount]int{1, 1, 1, 1, 2, 1, 2, 4, 2, 4, 8, 4, 8}

// num4x4BlocksWideLookup / num4x4BlocksHighLookup give a block's footprint
// in 4x4 units, used for sub-8x8 intra/inter mode info.
var num4x4BlocksWideLookup = [BlockSizesCount]int{1, 1, 2, 2, 2, 4, 4, 4, 8, 8, 8, 16, 16}
var num4x4BlocksHighLookup = [BlockSizesCount]int{1, 2, 1, 2, 4, 2, 4, 8, 4, 8, 16, 8, 16}

// maxTxsizeLookup gives the largest transform size usable for a block
// size.
var maxTxsizeLookup = [BlockSizesCount]TxSize{
	Tx4x4, Tx4x4, Tx4x4, Tx8x8, Tx8x8, Tx8x8,
	Tx16x16, Tx16x16, Tx16x16, Tx32x32, Tx32x32, Tx32x32, Tx32x32,
}

// segmentationFeatureBits / segmentationFeatureSigned give, per segment
// feature, the number of magnitude bits to read and whether it carries a
// sign bit.
var segmentationFeatureBits = [SegLvlMax]int{8, 6, 2, 0}
var segmentationFeatureSigned = [SegLvlMax]bool{true, true, false, false}

// IntraPredictionMode enumerates the 10 intra prediction modes.
type IntraPredictionMode int8

const (
	DcPred IntraPredictionMode = iota
	VPred
	HPred
	D45Pred
	D135Pred
	D117Pred
	D153Pred
	D207Pred
	D63Pred
	TmPred
)

// InterMode enumerates the inter prediction modes, offset so that
// NearestMv aligns with the tree-decoded inter_mode + NearestMv (spec.md
// §4.6 inter_block_mode_info).
type InterMode int8

const (
	NearestMv InterMode = iota
	NearMv
	ZeroMv
	NewMv
)
