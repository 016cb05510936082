package vp9

// FrameHeader holds every per-frame field named in spec.md §3 "Frame
// state". It is created fresh by the Header Decoder for each call to
// ParseFrame and is the non-owning view (spec.md §9) the Tree Parser and
// Tile Driver read and mutate through the owning *Decoder.
type FrameHeader struct {
	Profile                   int
	BitDepth                  int
	ColorSpace                ColorSpace
	ColorRange                ColorRange
	SubsamplingX, SubsamplingY bool

	ShowExistingFrame   bool
	FrameToShowMapIndex int

	FrameType            FrameType
	ShowFrame            bool
	ErrorResilientMode   bool
	FrameIsIntra         bool

	FrameWidth, FrameHeight   int
	RenderWidth, RenderHeight int
	MiCols, MiRows            int
	Sb64Cols, Sb64Rows        int

	RefreshFrameFlags uint8
	RefFrameIdx       [RefsPerFrame]int
	RefFrameSignBias  [4]int // indexed by ReferenceFrame (IntraFrame..AltRefFrame)

	InterpolationFilter  InterpolationFilter
	AllowHighPrecisionMV bool

	LoopFilterLevel        int
	LoopFilterSharpness    int
	LoopFilterDeltaEnabled bool
	LoopFilterRefDeltas    [4]int8
	LoopFilterModeDeltas   [2]int8

	BaseQIdx     int
	DeltaQYDc    int
	DeltaQUVDc   int
	DeltaQUVAc   int
	Lossless     bool

	TxMode TxMode

	Segmentation SegmentationParams

	TileColsLog2, TileRowsLog2 int
	MiRowStart, MiRowEnd       int
	MiColStart, MiColEnd       int

	ReferenceMode ReferenceMode
	CompFixedRef  ReferenceFrame
	CompVarRef    [2]ReferenceFrame

	FrameContextIdx           int
	ResetFrameContext         int
	RefreshFrameContext       bool
	FrameParallelDecodingMode bool

	HeaderSizeInBytes int
}

// SegmentationParams is spec.md §3's per-frame segmentation state.
type SegmentationParams struct {
	Enabled           bool
	UpdateMap         bool
	TemporalUpdate    bool
	AbsOrDeltaUpdate  bool
	TreeProbs         [7]uint8
	PredProb          [3]uint8
	FeatureEnabled    [MaxSegments][SegLvlMax]bool
	FeatureData       [MaxSegments][SegLvlMax]int
}

// MV is a motion vector in 1/8-pel units, (row, col) to match VP9's
// ordering.
type MV struct {
	Row int32
	Col int32
}

// NeighborContext holds the reallocated-per-frame and carried-across-frame
// arrays named in spec.md §3.
type NeighborContext struct {
	AboveNonzero [3][]uint8
	LeftNonzero  [3][]uint8

	AbovePartition []uint8
	LeftPartition  []uint8

	AboveSegPred []uint8
	LeftSegPred  []uint8

	// PrevSegmentIds and RefFrames are carried across frames; BlockMvs is
	// cleared at the start of each frame (it only needs to be valid for
	// above/left neighbor lookups within the current frame's decode).
	PrevSegmentIds [][]uint8
	RefFrames      [][][2]ReferenceFrame
	BlockMvs       [][][2]MV

	// Skips, TxSizes, and InterpFilters are the per-mi-position above/left
	// context for skip_context/tx_size_context/interp_filter_context,
	// addressed the same way as RefFrames: each is overwritten in raster
	// order as decode_block visits every position, so by the time a block
	// reads [row-1][col] or [row][col-1] it sees this frame's own
	// already-decoded neighbor rather than stale data from a previous
	// frame or a different position entirely.
	Skips         [][]uint8
	TxSizes       [][]TxSize
	InterpFilters [][]InterpolationFilter

	miRows, miCols     int
	sb64Rows, sb64Cols int
}

// Resize reallocates (and so zeroes) the per-frame arrays on every call
// and reallocates the carried arrays when mi geometry changes, per
// spec.md §5's lazy-(re)allocation policy. Carried arrays (PrevSegmentIds,
// RefFrames, Skips, TxSizes, InterpFilters) are zero-initialized only on
// first allocation or when their size changes; existing content survives a
// same-size resize.
func (n *NeighborContext) Resize(miRows, miCols, sb64Rows, sb64Cols int) {
	n.miRows, n.miCols = miRows, miCols
	n.sb64Rows, n.sb64Cols = sb64Rows, sb64Cols

	for i := 0; i < 3; i++ {
		n.AboveNonzero[i] = make([]uint8, miCols*2)
		n.LeftNonzero[i] = make([]uint8, miRows*2)
	}
	n.AbovePartition = make([]uint8, sb64Cols*8)
	n.LeftPartition = make([]uint8, sb64Rows*8)
	n.AboveSegPred = make([]uint8, miCols)
	n.LeftSegPred = make([]uint8, miRows)

	if len(n.PrevSegmentIds) != miRows || (miRows > 0 && len(n.PrevSegmentIds[0]) != miCols) {
		n.PrevSegmentIds = make([][]uint8, miRows)
		for r := range n.PrevSegmentIds {
			n.PrevSegmentIds[r] = make([]uint8, miCols)
		}
	}
	if len(n.RefFrames) != miRows || (miRows > 0 && len(n.RefFrames[0]) != miCols) {
		n.RefFrames = make([][][2]ReferenceFrame, miRows)
		for r := range n.RefFrames {
			n.RefFrames[r] = make([][2]ReferenceFrame, miCols)
		}
	}
	if len(n.Skips) != miRows || (miRows > 0 && len(n.Skips[0]) != miCols) {
		n.Skips = make([][]uint8, miRows)
		for r := range n.Skips {
			n.Skips[r] = make([]uint8, miCols)
		}
	}
	if len(n.TxSizes) != miRows || (miRows > 0 && len(n.TxSizes[0]) != miCols) {
		n.TxSizes = make([][]TxSize, miRows)
		for r := range n.TxSizes {
			n.TxSizes[r] = make([]TxSize, miCols)
		}
	}
	if len(n.InterpFilters) != miRows || (miRows > 0 && len(n.InterpFilters[0]) != miCols) {
		n.InterpFilters = make([][]InterpolationFilter, miRows)
		for r := range n.InterpFilters {
			n.InterpFilters[r] = make([]InterpolationFilter, miCols)
		}
	}
	n.BlockMvs = make([][][2]MV, miRows)
	for r := range n.BlockMvs {
		n.BlockMvs[r] = make([][2]MV, miCols)
	}
}

// ClearAboveContext zeroes the above_* arrays at the start of
// decode_tiles (spec.md §4.6 decode_tiles / clear_above_context).
func (n *NeighborContext) ClearAboveContext() {
	for i := 0; i < 3; i++ {
		clearU8(n.AboveNonzero[i])
	}
	clearU8(n.AbovePartition)
	clearU8(n.AboveSegPred)
}

// ClearLeftContext zeroes the left_* arrays at the start of every
// superblock row (spec.md §4.6 decode_tile / clear_left_context).
func (n *NeighborContext) ClearLeftContext() {
	for i := 0; i < 3; i++ {
		clearU8(n.LeftNonzero[i])
	}
	clearU8(n.LeftPartition)
	clearU8(n.LeftSegPred)
}

func clearU8(s []uint8) {
	for i := range s {
		s[i] = 0
	}
}

// BlockInfo is the per-block working state decode_block/mode_info
// populate, consumed by the Tree Parser's context-selection functions and
// by the neighbor-array writebacks at the end of decode_block.
type BlockInfo struct {
	MiRow, MiCol int
	MiSize       BlockSize
	Subsize      BlockSize

	AvailableU, AvailableL bool

	SegmentID int
	Skip      bool
	IsInter   bool
	TxSize    TxSize

	RefFrame [2]ReferenceFrame

	YMode    IntraPredictionMode
	UVMode   IntraPredictionMode
	SubModes [4]IntraPredictionMode

	InterpFilter InterpolationFilter
	InterMode    InterMode

	MV [2]MV

	// BestMv caches find_best_ref_mvs's nearest/near result per ref list
	// for assign_mv/append_sub8x8_mvs to read within the same block.
	BestMv [2][2]MV

	LeftRefFrame, AboveRefFrame [2]ReferenceFrame
	LeftIntra, AboveIntra       bool
	LeftSingle, AboveSingle     bool
	LeftSkip, AboveSkip         bool
	LeftTxSize, AboveTxSize     TxSize
	LeftInterpFilter            InterpolationFilter
	AboveInterpFilter           InterpolationFilter

	NumFourFourW, NumFourFourH int
}
