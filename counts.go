package vp9

// Counts is the adaptation-count bank accumulated during decode (spec.md
// §4.4). Its shapes mirror ProbabilitySet's so a downstream backward
// adaptation pass (out of this core, per spec.md §9) is a straight walk
// of matching indices.
type Counts struct {
	Partition [PartitionContexts][PartitionTypes]uint32

	YMode  [BlockSizeGroups][IntraModes]uint32
	UVMode [IntraModes][IntraModes]uint32

	Skip [SkipContexts][2]uint32

	TxSize8x8   [TxSizeContexts][2]uint32
	TxSize16x16 [TxSizeContexts][3]uint32
	TxSize32x32 [TxSizeContexts][4]uint32

	InterMode    [InterModeContexts][InterModes]uint32
	InterpFilter [InterpFilterContexts][SwitchableFilters]uint32
	IsInter      [IsInterContexts][2]uint32
	CompMode     [CompModeContexts][2]uint32
	SingleRef    [RefContexts][2][2]uint32
	CompRef      [RefContexts][2]uint32

	MvJoint    [MvJoints]uint32
	MvSign     [2][2]uint32
	MvClass    [2][MvClasses]uint32
	MvClass0Bit [2][2]uint32
	MvBits     [2][MvOffsetBits][2]uint32
	MvClass0Fr [2][Class0Size][MvFrSize]uint32
	MvFr       [2][MvFrSize]uint32
	MvClass0Hp [2][2]uint32
	MvHp       [2][2]uint32
}

// ClearCounts zeroes every counter (spec.md §4.4).
func (c *Counts) ClearCounts() {
	*c = Counts{}
}

// IncPartition records a decoded Partition leaf for adaptation.
func (c *Counts) IncPartition(ctx int, p Partition) {
	c.Partition[ctx][p]++
}

// IncYMode records a decoded y_mode leaf.
func (c *Counts) IncYMode(group int, mode IntraPredictionMode) {
	c.YMode[group][mode]++
}

// IncUVMode records a decoded uv_mode leaf.
func (c *Counts) IncUVMode(yMode IntraPredictionMode, uvMode IntraPredictionMode) {
	c.UVMode[yMode][uvMode]++
}

// IncSkip records a decoded skip leaf.
func (c *Counts) IncSkip(ctx int, skip bool) {
	c.Skip[ctx][boolIdx(skip)]++
}

// IncIsInter records a decoded is_inter leaf.
func (c *Counts) IncIsInter(ctx int, isInter bool) {
	c.IsInter[ctx][boolIdx(isInter)]++
}

// IncCompMode records a decoded comp_mode leaf.
func (c *Counts) IncCompMode(ctx int, mode ReferenceMode) {
	idx := 0
	if mode == CompoundReference {
		idx = 1
	}
	c.CompMode[ctx][idx]++
}

// IncInterMode records a decoded inter_mode leaf (already offset by
// NearestMv).
func (c *Counts) IncInterMode(ctx int, mode InterMode) {
	c.InterMode[ctx][mode]++
}

// IncInterpFilter records a decoded interp_filter leaf.
func (c *Counts) IncInterpFilter(ctx int, filter int) {
	c.InterpFilter[ctx][filter]++
}

// IncSingleRefP1 / IncSingleRefP2 record the two single_ref tree bits.
func (c *Counts) IncSingleRefP1(ctx int, bit bool) {
	c.SingleRef[ctx][0][boolIdx(bit)]++
}

func (c *Counts) IncSingleRefP2(ctx int, bit bool) {
	c.SingleRef[ctx][1][boolIdx(bit)]++
}

// IncCompRef records a decoded comp_ref leaf.
func (c *Counts) IncCompRef(ctx int, bit bool) {
	c.CompRef[ctx][boolIdx(bit)]++
}

// IncTxSize records a decoded tx_size leaf for the given maximum tx size
// class (spec.md's three tx_size trees have different depths).
func (c *Counts) IncTxSize(maxTx TxSize, ctx int, size TxSize) {
	switch maxTx {
	case Tx8x8:
		c.TxSize8x8[ctx][size]++
	case Tx16x16:
		c.TxSize16x16[ctx][size]++
	case Tx32x32:
		c.TxSize32x32[ctx][size]++
	}
}

func boolIdx(b bool) int {
	if b {
		return 1
	}
	return 0
}
