package vp9

// Tree shapes for every SyntaxElementType spec.md §4.5 names, laid out
// exactly like libvpx's vp9_*_tree arrays: a flat []int8 where an entry
// <= 0 is a leaf (negated value, so leaf 0 is stored as 0) and a positive
// entry is the array index of the next decision node.
var (
	partitionTree = []int8{
		-int8(PartitionNone), 2,
		-int8(PartitionHorizontal), 4,
		-int8(PartitionVertical), -int8(PartitionSplit),
	}

	intraModeTree = []int8{
		-int8(DcPred), 2,
		-int8(TmPred), 4,
		-int8(VPred), 6,
		8, 12,
		-int8(HPred), 10,
		-int8(D135Pred), -int8(D117Pred),
		-int8(D45Pred), 14,
		-int8(D63Pred), 16,
		-int8(D153Pred), -int8(D207Pred),
	}

	interModeTree = []int8{
		-int8(ZeroMv), 2,
		-int8(NearestMv), 4,
		-int8(NearMv), -int8(NewMv),
	}

	interpFilterTree = []int8{
		-int8(EightTap), 2,
		-int8(EightTapSmooth), -int8(EightTapSharp),
	}

	txSize8Tree  = []int8{-int8(Tx4x4), -int8(Tx8x8)}
	txSize16Tree = []int8{-int8(Tx4x4), 2, -int8(Tx8x8), -int8(Tx16x16)}
	txSize32Tree = []int8{-int8(Tx4x4), 2, -int8(Tx8x8), 4, -int8(Tx16x16), -int8(Tx32x32)}

	segmentTree = []int8{
		2, 4, 6, 8, 10, 12,
		0, -1, -2, -3, -4, -5, -6, -7,
	}

	mvJointTree = []int8{0, 2, -1, 4, -2, -3}
	mvFrTree    = []int8{0, 2, -1, 4, -2, -3}

	mvClassTree = []int8{
		0, 2,
		-1, 4,
		6, 8,
		-2, -3,
		10, 12,
		-4, -5,
		-6, 14,
		16, 18,
		-7, -8,
		-9, -10,
	}
)

// TreeParser is the stateless per-element decoder that spec.md §9 calls
// out as a non-owning view: unlike original_source's TreeParser (which
// holds a Decoder& for its whole lifetime), every method here takes the
// owning *Decoder as a parameter for that one call only. It reads the
// current arithmetic-coded symbol, resolves its context from the
// decoder's current block/neighbor state, and tallies the matching
// Counts entry so backward adaptation (outside this core) has data to
// work with.
type TreeParser struct{}

func (TreeParser) Partition(d *Decoder) (Partition, error) {
	ctx := partitionContext(d)
	probs := d.probTables.Current().PartitionProbs[ctx]
	if d.header.FrameType == KeyFrame || d.header.FrameIsIntra {
		probs = kfPartitionProbs[ctx]
	}
	leaf, err := d.bd.ReadTree(partitionTree, probs[:])
	if err != nil {
		return 0, err
	}
	p := Partition(leaf)
	d.counts.IncPartition(ctx, p)
	return p, nil
}

func partitionContext(d *Decoder) int {
	b := &d.block
	bsl := miWidthLog2(b.MiSize)
	above := 0
	left := 0
	if b.AvailableU {
		above = boolIdx(d.neighbors.AbovePartition[b.MiCol]&(1<<uint(bsl)) != 0)
	}
	if b.AvailableL {
		left = boolIdx(d.neighbors.LeftPartition[b.MiRow&7]&(1<<uint(bsl)) != 0)
	}
	return bsl*4 + left*2 + above
}

func miWidthLog2(bs BlockSize) int {
	switch {
	case bs >= Block64x32 && bs <= Block64x64:
		return 3
	case bs >= Block32x16 && bs <= Block32x64:
		return 2
	case bs >= Block16x8 && bs <= Block16x32:
		return 1
	default:
		return 0
	}
}

func (TreeParser) DefaultIntraMode(d *Decoder, aboveMode, leftMode IntraPredictionMode) (IntraPredictionMode, error) {
	probs := kfYModeProbs[aboveMode][leftMode]
	leaf, err := d.bd.ReadTree(intraModeTree, probs[:])
	if err != nil {
		return 0, err
	}
	return IntraPredictionMode(leaf), nil
}

func (TreeParser) DefaultUVMode(d *Decoder, yMode IntraPredictionMode) (IntraPredictionMode, error) {
	probs := kfUvModeProbs[yMode]
	leaf, err := d.bd.ReadTree(intraModeTree, probs[:])
	if err != nil {
		return 0, err
	}
	return IntraPredictionMode(leaf), nil
}

func (TreeParser) IntraMode(d *Decoder, sizeGroup int) (IntraPredictionMode, error) {
	probs := d.probTables.Current().YModeProbs[sizeGroup]
	leaf, err := d.bd.ReadTree(intraModeTree, probs[:])
	if err != nil {
		return 0, err
	}
	mode := IntraPredictionMode(leaf)
	d.counts.IncYMode(sizeGroup, mode)
	return mode, nil
}

func (TreeParser) SubIntraMode(d *Decoder) (IntraPredictionMode, error) {
	probs := d.probTables.Current().YModeProbs[0]
	leaf, err := d.bd.ReadTree(intraModeTree, probs[:])
	if err != nil {
		return 0, err
	}
	return IntraPredictionMode(leaf), nil
}

func (TreeParser) UVMode(d *Decoder, yMode IntraPredictionMode) (IntraPredictionMode, error) {
	probs := d.probTables.Current().UVModeProbs[yMode]
	leaf, err := d.bd.ReadTree(intraModeTree, probs[:])
	if err != nil {
		return 0, err
	}
	mode := IntraPredictionMode(leaf)
	d.counts.IncUVMode(yMode, mode)
	return mode, nil
}

func (TreeParser) SegmentID(d *Decoder) (int, error) {
	probs := d.header.Segmentation.TreeProbs
	leaf, err := d.bd.ReadTree(segmentTree, probs[:])
	if err != nil {
		return 0, err
	}
	return int(leaf), nil
}

func (TreeParser) SegIDPredicted(d *Decoder) (bool, error) {
	ctx := 0
	b := &d.block
	if b.AvailableL {
		ctx += boolIdx(d.neighbors.LeftSegPred[b.MiRow&63] != 0)
	}
	if b.AvailableU {
		ctx += boolIdx(d.neighbors.AboveSegPred[b.MiCol] != 0)
	}
	prob := d.header.Segmentation.PredProb[ctx]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return false, err
	}
	return bit != 0, nil
}

func (TreeParser) Skip(d *Decoder) (bool, error) {
	ctx := skipContext(d)
	prob := d.probTables.Current().SkipProb[ctx]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return false, err
	}
	skip := bit != 0
	d.counts.IncSkip(ctx, skip)
	return skip, nil
}

func skipContext(d *Decoder) int {
	b := &d.block
	ctx := 0
	if b.AvailableU && b.AboveSkip {
		ctx++
	}
	if b.AvailableL && b.LeftSkip {
		ctx++
	}
	return ctx
}

func (TreeParser) TxSize(d *Decoder, maxTxSize TxSize) (TxSize, error) {
	ctx := txSizeContext(d, maxTxSize)
	cur := d.probTables.Current()
	var leaf int8
	var err error
	switch maxTxSize {
	case Tx8x8:
		leaf, err = d.bd.ReadTree(txSize8Tree, cur.TxProbs8x8[ctx][:])
	case Tx16x16:
		leaf, err = d.bd.ReadTree(txSize16Tree, cur.TxProbs16x16[ctx][:])
	default:
		leaf, err = d.bd.ReadTree(txSize32Tree, cur.TxProbs32x32[ctx][:])
	}
	if err != nil {
		return 0, err
	}
	size := TxSize(leaf)
	d.counts.IncTxSize(maxTxSize, ctx, size)
	return size, nil
}

func txSizeContext(d *Decoder, maxTxSize TxSize) int {
	b := &d.block
	above := int(maxTxSize)
	left := int(maxTxSize)
	if b.AvailableU {
		above = int(b.AboveTxSize)
	}
	if b.AvailableL {
		left = int(b.LeftTxSize)
	}
	if !b.AvailableL {
		left = above
	}
	if !b.AvailableU {
		above = left
	}
	if above+left > int(maxTxSize) {
		return 1
	}
	return 0
}

func (TreeParser) IsInter(d *Decoder) (bool, error) {
	ctx := isInterContext(d)
	prob := d.probTables.Current().IsInterProb[ctx]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return false, err
	}
	isInter := bit != 0
	d.counts.IncIsInter(ctx, isInter)
	return isInter, nil
}

func isInterContext(d *Decoder) int {
	b := &d.block
	switch {
	case b.AvailableU && b.AvailableL:
		if b.AboveIntra && b.LeftIntra {
			return 3
		}
		if b.AboveIntra || b.LeftIntra {
			return 1
		}
		return 0
	case b.AvailableU || b.AvailableL:
		if (b.AvailableU && b.AboveIntra) || (b.AvailableL && b.LeftIntra) {
			return 2
		}
		return 0
	default:
		return 0
	}
}

func (TreeParser) CompMode(d *Decoder) (ReferenceMode, error) {
	ctx := compModeContext(d)
	prob := d.probTables.Current().CompModeProb[ctx]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return 0, err
	}
	mode := SingleReference
	if bit != 0 {
		mode = CompoundReference
	}
	d.counts.IncCompMode(ctx, mode)
	return mode, nil
}

func compModeContext(d *Decoder) int {
	b := &d.block
	fixedRef := d.header.CompFixedRef
	switch {
	case b.AvailableU && b.AvailableL:
		if b.AboveSingle && b.LeftSingle {
			return boolIdx(b.AboveRefFrame[0] == fixedRef) ^ boolIdx(b.LeftRefFrame[0] == fixedRef)
		}
		if b.AboveSingle {
			return 2 + boolIdx(b.AboveRefFrame[0] == fixedRef || b.AboveIntra)
		}
		if b.LeftSingle {
			return 2 + boolIdx(b.LeftRefFrame[0] == fixedRef || b.LeftIntra)
		}
		return 4
	case b.AvailableU:
		if b.AboveSingle {
			return boolIdx(b.AboveRefFrame[0] == fixedRef)
		}
		return 3
	case b.AvailableL:
		if b.LeftSingle {
			return boolIdx(b.LeftRefFrame[0] == fixedRef)
		}
		return 3
	default:
		return 1
	}
}

func (TreeParser) CompRef(d *Decoder) (bool, error) {
	ctx := compRefContext(d)
	prob := d.probTables.Current().CompRefProb[ctx]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return false, err
	}
	d.counts.IncCompRef(ctx, bit != 0)
	return bit != 0, nil
}

func (TreeParser) SingleRefP1(d *Decoder) (bool, error) {
	ctx := singleRefP1Context(d)
	prob := d.probTables.Current().SingleRefProb[ctx][0]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return false, err
	}
	d.counts.IncSingleRefP1(ctx, bit != 0)
	return bit != 0, nil
}

func (TreeParser) SingleRefP2(d *Decoder) (bool, error) {
	ctx := singleRefP2Context(d)
	prob := d.probTables.Current().SingleRefProb[ctx][1]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return false, err
	}
	d.counts.IncSingleRefP2(ctx, bit != 0)
	return bit != 0, nil
}

// compRefContext mirrors libvpx's vp9_get_pred_context_comp_ref_p: the
// context depends on whether the fixed/variable compound reference
// matches what the above/left neighbors actually used, with a coarser
// fallback the fewer neighbors are available.
func compRefContext(d *Decoder) int {
	b := &d.block
	fixRefIdx := d.header.RefFrameSignBias[d.header.CompFixedRef]
	varRefIdx := 1 - fixRefIdx
	varRef1 := d.header.CompVarRef[1]

	switch {
	case b.AvailableU && b.AvailableL:
		switch {
		case b.AboveIntra && b.LeftIntra:
			return 2
		case b.AboveIntra || b.LeftIntra:
			var edgeSingle bool
			var edgeRef0, edgeRef1 ReferenceFrame
			if b.AboveIntra {
				edgeSingle, edgeRef0, edgeRef1 = b.LeftSingle, b.LeftRefFrame[0], b.LeftRefFrame[1]
			} else {
				edgeSingle, edgeRef0, edgeRef1 = b.AboveSingle, b.AboveRefFrame[0], b.AboveRefFrame[1]
			}
			if edgeSingle {
				return 4 * boolIdx(edgeRef0 == varRef1)
			}
			edgeVarRef := edgeRef0
			if varRefIdx == 1 {
				edgeVarRef = edgeRef1
			}
			return 3 * boolIdx(edgeVarRef == varRef1)
		default:
			aSg := b.AboveSingle
			lSg := b.LeftSingle
			vrfa := b.AboveRefFrame[0]
			if !aSg {
				if varRefIdx == 1 {
					vrfa = b.AboveRefFrame[1]
				}
			}
			vrfl := b.LeftRefFrame[0]
			if !lSg {
				if varRefIdx == 1 {
					vrfl = b.LeftRefFrame[1]
				}
			}
			switch {
			case vrfa == vrfl && varRef1 == vrfa:
				return 0
			case aSg && lSg:
				if (vrfa == d.header.CompFixedRef && vrfl == d.header.CompVarRef[0]) ||
					(vrfl == d.header.CompFixedRef && vrfa == d.header.CompVarRef[0]) {
					return 1
				}
				if vrfa == vrfl {
					return 2
				}
				return 4
			case aSg || lSg:
				vrfc := vrfl
				if lSg {
					vrfc = vrfa
				}
				rfs := vrfl
				if aSg {
					rfs = vrfa
				}
				switch {
				case vrfc == varRef1 && rfs != vrfc:
					return 1
				case rfs == varRef1 && vrfc != rfs:
					return 2
				default:
					return 4
				}
			case vrfa == vrfl:
				return 4
			default:
				return 2
			}
		}
	case b.AvailableU || b.AvailableL:
		var edgeIntra bool
		var edgeSingle bool
		var edgeRef0, edgeRef1 ReferenceFrame
		if b.AvailableU {
			edgeIntra, edgeSingle, edgeRef0, edgeRef1 = b.AboveIntra, b.AboveSingle, b.AboveRefFrame[0], b.AboveRefFrame[1]
		} else {
			edgeIntra, edgeSingle, edgeRef0, edgeRef1 = b.LeftIntra, b.LeftSingle, b.LeftRefFrame[0], b.LeftRefFrame[1]
		}
		if edgeIntra {
			return 2
		}
		if !edgeSingle {
			edgeVarRef := edgeRef0
			if varRefIdx == 1 {
				edgeVarRef = edgeRef1
			}
			return 4 * boolIdx(edgeVarRef == varRef1)
		}
		return 3 * boolIdx(edgeRef0 == varRef1)
	default:
		return 2
	}
}

// singleRefP1Context mirrors libvpx's vp9_get_pred_context_single_ref_p1:
// the first single-reference bit distinguishes LAST_FRAME from the
// golden/altref pair, so the context tracks how often LAST_FRAME shows up
// among the above/left neighbors.
func singleRefP1Context(d *Decoder) int {
	b := &d.block
	switch {
	case b.AvailableU && b.AvailableL:
		switch {
		case b.AboveIntra && b.LeftIntra:
			return 2
		case b.AboveIntra || b.LeftIntra:
			var edgeSingle bool
			var edgeRef0, edgeRef1 ReferenceFrame
			if b.AboveIntra {
				edgeSingle, edgeRef0, edgeRef1 = b.LeftSingle, b.LeftRefFrame[0], b.LeftRefFrame[1]
			} else {
				edgeSingle, edgeRef0, edgeRef1 = b.AboveSingle, b.AboveRefFrame[0], b.AboveRefFrame[1]
			}
			if edgeSingle {
				return 4 * boolIdx(edgeRef0 == LastFrame)
			}
			return 1 + boolIdx(edgeRef0 == LastFrame || edgeRef1 == LastFrame)
		case b.AboveSingle && b.LeftSingle:
			return 2*boolIdx(b.AboveRefFrame[0] == LastFrame) + 2*boolIdx(b.LeftRefFrame[0] == LastFrame)
		case !b.AboveSingle && !b.LeftSingle:
			return 2*boolIdx(b.AboveRefFrame[0] == LastFrame) + 2*boolIdx(b.LeftRefFrame[0] == LastFrame)
		default:
			var rfs, crf1, crf2 ReferenceFrame
			if b.AboveSingle {
				rfs = b.AboveRefFrame[0]
				crf1, crf2 = b.LeftRefFrame[0], b.LeftRefFrame[1]
			} else {
				rfs = b.LeftRefFrame[0]
				crf1, crf2 = b.AboveRefFrame[0], b.AboveRefFrame[1]
			}
			if rfs == LastFrame {
				return 3 + boolIdx(crf1 == LastFrame || crf2 == LastFrame)
			}
			return boolIdx(crf1 == LastFrame || crf2 == LastFrame)
		}
	case b.AvailableU || b.AvailableL:
		var edgeIntra, edgeSingle bool
		var edgeRef0, edgeRef1 ReferenceFrame
		if b.AvailableU {
			edgeIntra, edgeSingle, edgeRef0, edgeRef1 = b.AboveIntra, b.AboveSingle, b.AboveRefFrame[0], b.AboveRefFrame[1]
		} else {
			edgeIntra, edgeSingle, edgeRef0, edgeRef1 = b.LeftIntra, b.LeftSingle, b.LeftRefFrame[0], b.LeftRefFrame[1]
		}
		if edgeIntra {
			return 2
		}
		if !edgeSingle {
			return 4 * boolIdx(edgeRef0 == LastFrame || edgeRef1 == LastFrame)
		}
		return 4 * boolIdx(edgeRef0 == LastFrame)
	default:
		return 2
	}
}

// singleRefP2Context mirrors libvpx's vp9_get_pred_context_single_ref_p2:
// gated on the first bit already having chosen "not LAST_FRAME", this
// distinguishes GOLDEN_FRAME from ALTREF_FRAME.
func singleRefP2Context(d *Decoder) int {
	b := &d.block
	switch {
	case b.AvailableU && b.AvailableL:
		switch {
		case b.AboveIntra && b.LeftIntra:
			return 2
		case b.AboveIntra || b.LeftIntra:
			var edgeSingle bool
			var edgeRef0, edgeRef1 ReferenceFrame
			if b.AboveIntra {
				edgeSingle, edgeRef0, edgeRef1 = b.LeftSingle, b.LeftRefFrame[0], b.LeftRefFrame[1]
			} else {
				edgeSingle, edgeRef0, edgeRef1 = b.AboveSingle, b.AboveRefFrame[0], b.AboveRefFrame[1]
			}
			if edgeSingle {
				if edgeRef0 == LastFrame {
					return 3
				}
				return 4 * boolIdx(edgeRef0 == GoldenFrame)
			}
			return 1 + 2*boolIdx(edgeRef0 == GoldenFrame || edgeRef1 == GoldenFrame)
		case b.AboveSingle && b.LeftSingle:
			above0, left0 := b.AboveRefFrame[0], b.LeftRefFrame[0]
			switch {
			case above0 == LastFrame && left0 == LastFrame:
				return 3
			case above0 == LastFrame || left0 == LastFrame:
				edge0 := above0
				if above0 == LastFrame {
					edge0 = left0
				}
				return 4 * boolIdx(edge0 == GoldenFrame)
			default:
				return 2*boolIdx(above0 == GoldenFrame) + 2*boolIdx(left0 == GoldenFrame)
			}
		case !b.AboveSingle && !b.LeftSingle:
			if b.AboveRefFrame[0] == b.LeftRefFrame[0] && b.AboveRefFrame[1] == b.LeftRefFrame[1] {
				return 3 * boolIdx(b.AboveRefFrame[0] == GoldenFrame || b.AboveRefFrame[1] == GoldenFrame)
			}
			return 2
		default:
			var rfs, crf1, crf2 ReferenceFrame
			if b.AboveSingle {
				rfs = b.AboveRefFrame[0]
				crf1, crf2 = b.LeftRefFrame[0], b.LeftRefFrame[1]
			} else {
				rfs = b.LeftRefFrame[0]
				crf1, crf2 = b.AboveRefFrame[0], b.AboveRefFrame[1]
			}
			switch {
			case rfs == GoldenFrame:
				return 3 + boolIdx(crf1 == GoldenFrame || crf2 == GoldenFrame)
			case rfs == AltRefFrame:
				return boolIdx(crf1 == GoldenFrame || crf2 == GoldenFrame)
			default:
				return 1 + 2*boolIdx(crf1 == GoldenFrame || crf2 == GoldenFrame)
			}
		}
	case b.AvailableU || b.AvailableL:
		var edgeIntra, edgeSingle bool
		var edgeRef0, edgeRef1 ReferenceFrame
		if b.AvailableU {
			edgeIntra, edgeSingle, edgeRef0, edgeRef1 = b.AboveIntra, b.AboveSingle, b.AboveRefFrame[0], b.AboveRefFrame[1]
		} else {
			edgeIntra, edgeSingle, edgeRef0, edgeRef1 = b.LeftIntra, b.LeftSingle, b.LeftRefFrame[0], b.LeftRefFrame[1]
		}
		if edgeIntra || (edgeSingle && edgeRef0 == LastFrame) {
			return 2
		}
		if edgeSingle {
			return 4 * boolIdx(edgeRef0 == GoldenFrame)
		}
		return 3 * boolIdx(edgeRef0 == GoldenFrame || edgeRef1 == GoldenFrame)
	default:
		return 2
	}
}

func (TreeParser) InterMode(d *Decoder, ctx int) (InterMode, error) {
	probs := d.probTables.Current().InterModeProbs[ctx]
	leaf, err := d.bd.ReadTree(interModeTree, probs[:])
	if err != nil {
		return 0, err
	}
	mode := InterMode(leaf)
	d.counts.IncInterMode(ctx, mode)
	return mode, nil
}

func (TreeParser) InterpFilter(d *Decoder) (InterpolationFilter, error) {
	ctx := interpFilterContext(d)
	probs := d.probTables.Current().InterpFilterProbs[ctx]
	leaf, err := d.bd.ReadTree(interpFilterTree, probs[:])
	if err != nil {
		return 0, err
	}
	filter := InterpolationFilter(leaf)
	d.counts.IncInterpFilter(ctx, int(filter))
	return filter, nil
}

func interpFilterContext(d *Decoder) int {
	b := &d.block
	left := SwitchableFilters
	above := SwitchableFilters
	if b.AvailableL && b.LeftRefFrame[0] > IntraFrame {
		left = int(b.LeftInterpFilter)
	}
	if b.AvailableU && b.AboveRefFrame[0] > IntraFrame {
		above = int(b.AboveInterpFilter)
	}
	if left == above {
		return left
	}
	if left == SwitchableFilters {
		return above
	}
	if above == SwitchableFilters {
		return left
	}
	return SwitchableFilters
}

func (TreeParser) MvJoint(d *Decoder) (int, error) {
	probs := d.probTables.Current().MvJointProbs
	leaf, err := d.bd.ReadTree(mvJointTree, probs[:])
	if err != nil {
		return 0, err
	}
	d.counts.MvJoint[leaf]++
	return int(leaf), nil
}

func (TreeParser) MvSign(d *Decoder, comp int) (bool, error) {
	prob := d.probTables.Current().MvSignProb[comp]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return false, err
	}
	d.counts.MvSign[comp][boolIdx(bit != 0)]++
	return bit != 0, nil
}

func (TreeParser) MvClass(d *Decoder, comp int) (int, error) {
	probs := d.probTables.Current().MvClassProbs[comp]
	leaf, err := d.bd.ReadTree(mvClassTree, probs[:])
	if err != nil {
		return 0, err
	}
	d.counts.MvClass[comp][leaf]++
	return int(leaf), nil
}

func (TreeParser) MvClass0Bit(d *Decoder, comp int) (int, error) {
	prob := d.probTables.Current().MvClass0BitProb[comp]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return 0, err
	}
	d.counts.MvClass0Bit[comp][bit]++
	return bit, nil
}

func (TreeParser) MvBit(d *Decoder, comp, i int) (int, error) {
	prob := d.probTables.Current().MvBitsProb[comp][i]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return 0, err
	}
	d.counts.MvBits[comp][i][bit]++
	return bit, nil
}

func (TreeParser) MvClass0Fr(d *Decoder, comp, class0Bit int) (int, error) {
	probs := d.probTables.Current().MvClass0FrProbs[comp][class0Bit]
	leaf, err := d.bd.ReadTree(mvFrTree, probs[:])
	if err != nil {
		return 0, err
	}
	d.counts.MvClass0Fr[comp][class0Bit][leaf]++
	return int(leaf), nil
}

func (TreeParser) MvFr(d *Decoder, comp int) (int, error) {
	probs := d.probTables.Current().MvFrProbs[comp]
	leaf, err := d.bd.ReadTree(mvFrTree, probs[:])
	if err != nil {
		return 0, err
	}
	d.counts.MvFr[comp][leaf]++
	return int(leaf), nil
}

func (TreeParser) MvClass0Hp(d *Decoder, comp int, allowHP bool) (int, error) {
	if !allowHP {
		return 1, nil
	}
	prob := d.probTables.Current().MvClass0HpProb[comp]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return 0, err
	}
	d.counts.MvClass0Hp[comp][bit]++
	return bit, nil
}

func (TreeParser) MvHp(d *Decoder, comp int, allowHP bool) (int, error) {
	if !allowHP {
		return 1, nil
	}
	prob := d.probTables.Current().MvHpProb[comp]
	bit, err := d.bd.ReadBool(prob)
	if err != nil {
		return 0, err
	}
	d.counts.MvHp[comp][bit]++
	return bit, nil
}
