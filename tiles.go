package vp9

// decodeTiles implements spec.md §4.8's tile grid walk: clear the above
// context once, then for every tile row/column pair, locate the tile's
// byte range, seed a fresh arithmetic section over it, and decode.
func (d *Decoder) decodeTiles() error {
	h := &d.header
	d.neighbors.Resize(h.MiRows, h.MiCols, h.Sb64Rows, h.Sb64Cols)
	d.neighbors.ClearAboveContext()

	tileCols := 1 << uint(h.TileColsLog2)
	tileRows := 1 << uint(h.TileRowsLog2)

	for tileRow := 0; tileRow < tileRows; tileRow++ {
		for tileCol := 0; tileCol < tileCols; tileCol++ {
			lastTile := tileRow == tileRows-1 && tileCol == tileCols-1
			var tileSize int
			if !lastTile {
				size, err := d.reader.ReadF32()
				if err != nil {
					return err
				}
				tileSize = int(size)
			} else {
				tileSize = d.reader.BytesRemaining()
			}

			h.MiRowStart, h.MiRowEnd = tileOffset(tileRow, tileRows, h.Sb64Rows, h.MiRows)
			h.MiColStart, h.MiColEnd = tileOffset(tileCol, tileCols, h.Sb64Cols, h.MiCols)

			if err := d.bd.InitBool(d.reader, tileSize); err != nil {
				return err
			}
			if err := d.decodeTile(); err != nil {
				return err
			}
			if err := d.bd.ExitBool(); err != nil {
				return err
			}
		}
	}
	return nil
}

// tileOffset implements spec.md §4.8 get_tile_offset.
func tileOffset(tileNum, numTiles, sb64Units, miUnits int) (int, int) {
	// numTiles is a power of two, so dividing by it is the spec's >> log2.
	start := minInt(tileNum*sb64Units/numTiles*8, miUnits)
	end := minInt((tileNum+1)*sb64Units/numTiles*8, miUnits)
	return start, end
}

func (d *Decoder) decodeTile() error {
	h := &d.header
	for r := h.MiRowStart; r < h.MiRowEnd; r += 8 {
		d.neighbors.ClearLeftContext()
		for c := h.MiColStart; c < h.MiColEnd; c += 8 {
			if err := d.decodePartition(r, c, Block64x64); err != nil {
				return err
			}
		}
	}
	return nil
}

// decodePartition implements spec.md §4.9's quadtree recursion in full,
// including the PartitionVertical/PartitionHorizontal/PartitionSplit
// arms original_source left as stubs.
func (d *Decoder) decodePartition(miRow, miCol int, blockSize BlockSize) error {
	h := &d.header
	if miRow >= h.MiRows || miCol >= h.MiCols {
		return nil
	}

	num8x8 := num8x8BlocksWideLookup[blockSize]
	halfBlock8x8 := num8x8 / 2
	hasRows := (miRow + halfBlock8x8) < h.MiRows
	hasCols := (miCol + halfBlock8x8) < h.MiCols

	d.block.MiRow = miRow
	d.block.MiCol = miCol
	d.block.MiSize = blockSize
	d.setBlockAvailability(miRow, miCol)

	partition, err := d.tp.Partition(d)
	if err != nil {
		return err
	}

	subsize := subsizeLookup[partition][blockSize]

	switch {
	case subsize < Block8x8 || partition == PartitionNone:
		if err := d.decodeBlock(miRow, miCol, subsize); err != nil {
			return err
		}
	case partition == PartitionHorizontal:
		if err := d.decodeBlock(miRow, miCol, subsize); err != nil {
			return err
		}
		if hasRows {
			if err := d.decodeBlock(miRow+halfBlock8x8, miCol, subsize); err != nil {
				return err
			}
		}
	case partition == PartitionVertical:
		if err := d.decodeBlock(miRow, miCol, subsize); err != nil {
			return err
		}
		if hasCols {
			if err := d.decodeBlock(miRow, miCol+halfBlock8x8, subsize); err != nil {
				return err
			}
		}
	case partition == PartitionSplit:
		if err := d.decodePartition(miRow, miCol, subsize); err != nil {
			return err
		}
		if err := d.decodePartition(miRow, miCol+halfBlock8x8, subsize); err != nil {
			return err
		}
		if err := d.decodePartition(miRow+halfBlock8x8, miCol, subsize); err != nil {
			return err
		}
		if err := d.decodePartition(miRow+halfBlock8x8, miCol+halfBlock8x8, subsize); err != nil {
			return err
		}
	}

	if blockSize >= Block8x8 {
		bsl := miWidthLog2(blockSize)
		above := uint8(1)<<uint(bsl) - 1
		if partition == PartitionVertical || partition == PartitionSplit {
			above = 0
		}
		left := uint8(1)<<uint(bsl) - 1
		if partition == PartitionHorizontal || partition == PartitionSplit {
			left = 0
		}
		for i := 0; i < num8x8; i++ {
			if miCol+i < len(d.neighbors.AbovePartition) {
				d.neighbors.AbovePartition[miCol+i] = above
			}
			if (miRow&7)+i < len(d.neighbors.LeftPartition) {
				d.neighbors.LeftPartition[(miRow&7)+i] = left
			}
		}
	}
	return nil
}

func (d *Decoder) setBlockAvailability(miRow, miCol int) {
	h := &d.header
	d.block.AvailableU = miRow > h.MiRowStart
	d.block.AvailableL = miCol > h.MiColStart
}

// decodeBlock implements spec.md §4.10 decode_block: resolve mode info,
// tx size, then emit the syntax token and write neighbor state back.
func (d *Decoder) decodeBlock(miRow, miCol int, subsize BlockSize) error {
	b := &d.block
	b.MiRow = miRow
	b.MiCol = miCol
	b.MiSize = subsize
	d.setBlockAvailability(miRow, miCol)
	b.NumFourFourW = num4x4BlocksWideLookup[subsize]
	b.NumFourFourH = num4x4BlocksHighLookup[subsize]

	d.loadNeighborModeInfo(miRow, miCol)

	if d.header.FrameIsIntra {
		if err := d.intraFrameModeInfo(); err != nil {
			return err
		}
	} else {
		if err := d.interFrameModeInfo(); err != nil {
			return err
		}
	}

	d.writeNeighborModeInfo(miRow, miCol)

	token := BlockToken{
		MiRow: miRow, MiCol: miCol, MiSize: subsize,
		SegmentID: b.SegmentID, Skip: b.Skip, IsInter: b.IsInter,
		TxSize: b.TxSize, YMode: b.YMode, UVMode: b.UVMode,
		SubModes: b.SubModes, RefFrame: b.RefFrame,
		InterMode: b.InterMode, InterpFilter: b.InterpFilter, MV: b.MV,
	}
	d.blocks = append(d.blocks, token)
	return nil
}

// loadNeighborModeInfo populates BlockInfo's Above*/Left* fields from the
// carried neighbor arrays before mode_info parsing needs them for
// context selection.
func (d *Decoder) loadNeighborModeInfo(miRow, miCol int) {
	b := &d.block
	b.AboveRefFrame = [2]ReferenceFrame{NoneRef, NoneRef}
	b.LeftRefFrame = [2]ReferenceFrame{NoneRef, NoneRef}
	b.AboveSkip, b.LeftSkip = false, false
	b.AboveTxSize, b.LeftTxSize = 0, 0
	b.AboveInterpFilter, b.LeftInterpFilter = 0, 0
	if b.AvailableU && miRow-1 < len(d.neighbors.RefFrames) && miCol < len(d.neighbors.RefFrames[miRow-1]) {
		b.AboveRefFrame = d.neighbors.RefFrames[miRow-1][miCol]
		b.AboveSkip = d.neighbors.Skips[miRow-1][miCol] != 0
		b.AboveTxSize = d.neighbors.TxSizes[miRow-1][miCol]
		b.AboveInterpFilter = d.neighbors.InterpFilters[miRow-1][miCol]
	}
	if b.AvailableL && miRow < len(d.neighbors.RefFrames) && miCol-1 >= 0 && miCol-1 < len(d.neighbors.RefFrames[miRow]) {
		b.LeftRefFrame = d.neighbors.RefFrames[miRow][miCol-1]
		b.LeftSkip = d.neighbors.Skips[miRow][miCol-1] != 0
		b.LeftTxSize = d.neighbors.TxSizes[miRow][miCol-1]
		b.LeftInterpFilter = d.neighbors.InterpFilters[miRow][miCol-1]
	}
	b.AboveIntra = b.AboveRefFrame[0] <= IntraFrame
	b.LeftIntra = b.LeftRefFrame[0] <= IntraFrame
	b.AboveSingle = b.AboveRefFrame[1] <= NoneRef
	b.LeftSingle = b.LeftRefFrame[1] <= NoneRef
}

// writeNeighborModeInfo commits this block's resolved state into the
// carried neighbor arrays (PrevSegmentIds, RefFrames, BlockMvs, Skips,
// TxSizes, InterpFilters), the writeback original_source left as a TODO.
func (d *Decoder) writeNeighborModeInfo(miRow, miCol int) {
	b := &d.block
	for r := miRow; r < minInt(miRow+b.NumFourFourH, d.header.MiRows); r++ {
		for c := miCol; c < minInt(miCol+b.NumFourFourW, d.header.MiCols); c++ {
			if r < len(d.neighbors.PrevSegmentIds) && c < len(d.neighbors.PrevSegmentIds[r]) {
				d.neighbors.PrevSegmentIds[r][c] = uint8(b.SegmentID)
			}
			if r < len(d.neighbors.RefFrames) && c < len(d.neighbors.RefFrames[r]) {
				d.neighbors.RefFrames[r][c] = b.RefFrame
			}
			if r < len(d.neighbors.BlockMvs) && c < len(d.neighbors.BlockMvs[r]) {
				d.neighbors.BlockMvs[r][c] = b.MV
			}
			if r < len(d.neighbors.Skips) && c < len(d.neighbors.Skips[r]) {
				d.neighbors.Skips[r][c] = boolToU8(b.Skip)
			}
			if r < len(d.neighbors.TxSizes) && c < len(d.neighbors.TxSizes[r]) {
				d.neighbors.TxSizes[r][c] = b.TxSize
			}
			if r < len(d.neighbors.InterpFilters) && c < len(d.neighbors.InterpFilters[r]) {
				d.neighbors.InterpFilters[r][c] = b.InterpFilter
			}
		}
	}
	if miCol < len(d.neighbors.AboveSegPred) {
		d.neighbors.AboveSegPred[miCol] = boolToU8(d.header.Segmentation.TemporalUpdate)
	}
	if (miRow & 63) < len(d.neighbors.LeftSegPred) {
		d.neighbors.LeftSegPred[miRow&63] = boolToU8(d.header.Segmentation.TemporalUpdate)
	}
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// readBlockTxSize implements spec.md §4.10 read_tx_size: allowSelect is
// false when skip && is_inter (lossless/skip blocks always use the
// largest allowed transform).
func (d *Decoder) readBlockTxSize(allowSelect bool) error {
	b := &d.block
	maxTxSize := maxTxsizeLookup[b.MiSize]
	if b.MiSize >= Block8x8 && d.header.TxMode == TxModeSelect && allowSelect {
		size, err := d.tp.TxSize(d, maxTxSize)
		if err != nil {
			return err
		}
		b.TxSize = size
		return nil
	}
	b.TxSize = minTx(maxTxSize, txModeToBiggestTxSize[d.header.TxMode])
	return nil
}

func minTx(a, b TxSize) TxSize {
	if a < b {
		return a
	}
	return b
}

// intraFrameModeInfo implements spec.md §4.10 intra_frame_mode_info.
func (d *Decoder) intraFrameModeInfo() error {
	b := &d.block
	if err := d.intraSegmentId(); err != nil {
		return err
	}
	skip, err := d.readSkipIfNeeded()
	if err != nil {
		return err
	}
	b.Skip = skip
	if err := d.readBlockTxSize(true); err != nil {
		return err
	}
	b.IsInter = false
	b.RefFrame = [2]ReferenceFrame{IntraFrame, NoneRef}

	if b.MiSize >= Block8x8 {
		aboveMode := DcPred
		if b.AvailableU {
			aboveMode = b.AboveIntraMode()
		}
		leftMode := DcPred
		if b.AvailableL {
			leftMode = b.LeftIntraMode()
		}
		mode, err := d.tp.DefaultIntraMode(d, aboveMode, leftMode)
		if err != nil {
			return err
		}
		b.YMode = mode
		for i := range b.SubModes {
			b.SubModes[i] = mode
		}
	} else {
		w4 := num4x4BlocksWideLookup[b.MiSize]
		h4 := num4x4BlocksHighLookup[b.MiSize]
		for idy := 0; idy < 2; idy += h4 {
			for idx := 0; idx < 2; idx += w4 {
				mode, err := d.tp.DefaultIntraMode(d, DcPred, DcPred)
				if err != nil {
					return err
				}
				sub := idy*2 + idx
				b.SubModes[sub] = mode
				if w4 == 2 {
					b.SubModes[sub+1] = mode
				}
				if h4 == 2 {
					b.SubModes[sub+2] = mode
				}
			}
		}
		b.YMode = b.SubModes[3]
	}

	uvMode, err := d.tp.DefaultUVMode(d, b.YMode)
	if err != nil {
		return err
	}
	b.UVMode = uvMode
	return nil
}

// AboveIntraMode / LeftIntraMode are convenience accessors the
// intra_frame_mode_info context lookup needs; they default to DC when
// the neighbor wasn't itself intra-predicted (spec.md §4.10 note: the
// keyframe y-mode context only looks at intra neighbors).
func (b *BlockInfo) AboveIntraMode() IntraPredictionMode {
	if !b.AboveIntra {
		return DcPred
	}
	return b.SubModes[3]
}

func (b *BlockInfo) LeftIntraMode() IntraPredictionMode {
	if !b.LeftIntra {
		return DcPred
	}
	return b.SubModes[3]
}

func (d *Decoder) intraSegmentId() error {
	seg := &d.header.Segmentation
	b := &d.block
	if seg.Enabled && seg.UpdateMap {
		id, err := d.tp.SegmentID(d)
		if err != nil {
			return err
		}
		b.SegmentID = id
	} else {
		b.SegmentID = 0
	}
	return nil
}

func (d *Decoder) readSkipIfNeeded() (bool, error) {
	if d.segFeatureActive(SegLvlSkip) {
		return true, nil
	}
	return d.tp.Skip(d)
}

func (d *Decoder) segFeatureActive(feature int) bool {
	seg := &d.header.Segmentation
	return seg.Enabled && seg.FeatureEnabled[d.block.SegmentID][feature]
}

// interFrameModeInfo implements spec.md §4.10 inter_frame_mode_info.
func (d *Decoder) interFrameModeInfo() error {
	b := &d.block
	if err := d.interSegmentId(); err != nil {
		return err
	}
	skip, err := d.readSkipIfNeeded()
	if err != nil {
		return err
	}
	b.Skip = skip

	isInter, err := d.readIsInter()
	if err != nil {
		return err
	}
	b.IsInter = isInter

	if err := d.readBlockTxSize(!(b.Skip && isInter)); err != nil {
		return err
	}

	if isInter {
		return d.interBlockModeInfo()
	}
	return d.intraBlockModeInfo()
}

func (d *Decoder) interSegmentId() error {
	seg := &d.header.Segmentation
	b := &d.block
	if !seg.Enabled {
		b.SegmentID = 0
		return nil
	}
	predictedSegmentID := d.getSegmentId()
	if !seg.UpdateMap {
		b.SegmentID = predictedSegmentID
		return nil
	}
	if seg.TemporalUpdate {
		predicted, err := d.tp.SegIDPredicted(d)
		if err != nil {
			return err
		}
		if predicted {
			b.SegmentID = predictedSegmentID
			return nil
		}
	}
	id, err := d.tp.SegmentID(d)
	if err != nil {
		return err
	}
	b.SegmentID = id
	return nil
}

// getSegmentId implements spec.md §4.10: the minimum previous segment id
// across the block's 8x8 footprint.
func (d *Decoder) getSegmentId() int {
	b := &d.block
	prev := d.neighbors.PrevSegmentIds
	if len(prev) == 0 {
		return 0
	}
	minID := MaxSegments - 1
	bh := num8x8BlocksHighLookup[b.MiSize]
	bw := num8x8BlocksWideLookup[b.MiSize]
	for r := b.MiRow; r < minInt(b.MiRow+bh, d.header.MiRows); r++ {
		for c := b.MiCol; c < minInt(b.MiCol+bw, d.header.MiCols); c++ {
			if r < len(prev) && c < len(prev[r]) {
				minID = minInt(minID, int(prev[r][c]))
			}
		}
	}
	return minID
}

func (d *Decoder) readIsInter() (bool, error) {
	if d.segFeatureActive(SegLvlRefFrame) {
		return d.header.Segmentation.FeatureData[d.block.SegmentID][SegLvlRefFrame] != int(IntraFrame), nil
	}
	return d.tp.IsInter(d)
}

func (d *Decoder) intraBlockModeInfo() error {
	b := &d.block
	b.RefFrame = [2]ReferenceFrame{IntraFrame, NoneRef}
	if b.MiSize >= Block8x8 {
		group := sizeGroupLookup(b.MiSize)
		mode, err := d.tp.IntraMode(d, group)
		if err != nil {
			return err
		}
		b.YMode = mode
		for i := range b.SubModes {
			b.SubModes[i] = mode
		}
	} else {
		w4 := num4x4BlocksWideLookup[b.MiSize]
		h4 := num4x4BlocksHighLookup[b.MiSize]
		for idy := 0; idy < 2; idy += h4 {
			for idx := 0; idx < 2; idx += w4 {
				mode, err := d.tp.SubIntraMode(d)
				if err != nil {
					return err
				}
				sub := idy*2 + idx
				b.SubModes[sub] = mode
				if w4 == 2 {
					b.SubModes[sub+1] = mode
				}
				if h4 == 2 {
					b.SubModes[sub+2] = mode
				}
			}
		}
		b.YMode = b.SubModes[3]
	}
	mode, err := d.tp.UVMode(d, b.YMode)
	if err != nil {
		return err
	}
	b.UVMode = mode
	return nil
}

func sizeGroupLookup(bs BlockSize) int {
	switch {
	case bs >= Block64x32:
		return 3
	case bs >= Block32x16:
		return 2
	case bs >= Block16x8:
		return 1
	default:
		return 0
	}
}

// interBlockModeInfo implements spec.md §4.10 inter_block_mode_info,
// including the full read_ref_frames / find_mv_refs / assign_mv chain
// original_source left unimplemented.
func (d *Decoder) interBlockModeInfo() error {
	b := &d.block
	if err := d.readRefFrames(); err != nil {
		return err
	}

	isCompound := b.RefFrame[1] > IntraFrame
	for j := 0; j < 1+boolIdx(isCompound); j++ {
		if err := d.findBestRefMvs(j); err != nil {
			return err
		}
	}

	if b.MiSize < Block8x8 {
		return d.appendSub8x8Mvs(isCompound)
	}

	ctx := interModeContext(d)
	mode, err := d.tp.InterMode(d, ctx)
	if err != nil {
		return err
	}
	b.InterMode = mode

	if d.header.InterpolationFilter == Switchable {
		filter, err := d.tp.InterpFilter(d)
		if err != nil {
			return err
		}
		b.InterpFilter = filter
	} else {
		b.InterpFilter = d.header.InterpolationFilter
	}

	for j := 0; j < 1+boolIdx(isCompound); j++ {
		mv, err := d.assignMv(j, mode)
		if err != nil {
			return err
		}
		b.MV[j] = mv
	}
	if !isCompound {
		b.MV[1] = MV{}
	}
	return nil
}

// interModeContext is an availability-only approximation of libvpx's
// mode_context (vp9_find_mv_refs derives it from which of the fixed
// neighbor offsets actually matched the target ref frame and carried
// NEWMV/ZEROMV, not just whether a neighbor exists at all). Documented
// as a known simplification in DESIGN.md; it affects inter-mode coding
// efficiency, not syntax structure, since every InterModeContexts
// context still has its own valid probability row.
func interModeContext(d *Decoder) int {
	b := &d.block
	ctx := 3
	if b.AvailableU && b.AvailableL {
		ctx = 0
	} else if b.AvailableU || b.AvailableL {
		ctx = 1
	}
	return ctx
}

// readRefFrames implements spec.md §4.10 read_ref_frames: the
// segmentation-forced case, then compound/single selection through the
// Tree Parser's CompMode/CompRef/SingleRefP1/SingleRefP2, whose contexts
// are derived from the above/left neighbor reference state.
func (d *Decoder) readRefFrames() error {
	b := &d.block
	if d.segFeatureActive(SegLvlRefFrame) {
		b.RefFrame[0] = ReferenceFrame(d.header.Segmentation.FeatureData[b.SegmentID][SegLvlRefFrame])
		b.RefFrame[1] = NoneRef
		return nil
	}

	mode := d.header.ReferenceMode
	compound := mode == CompoundReference
	if mode == ReferenceModeSelect {
		m, err := d.tp.CompMode(d)
		if err != nil {
			return err
		}
		compound = m == CompoundReference
	}

	if compound {
		bit, err := d.tp.CompRef(d)
		if err != nil {
			return err
		}
		idx := boolIdx(bit)
		b.RefFrame[0] = d.header.CompFixedRef
		b.RefFrame[1] = d.header.CompVarRef[idx]
	} else {
		bit1, err := d.tp.SingleRefP1(d)
		if err != nil {
			return err
		}
		if bit1 {
			bit2, err := d.tp.SingleRefP2(d)
			if err != nil {
				return err
			}
			if bit2 {
				b.RefFrame[0] = AltRefFrame
			} else {
				b.RefFrame[0] = GoldenFrame
			}
		} else {
			b.RefFrame[0] = LastFrame
		}
		b.RefFrame[1] = NoneRef
	}
	return nil
}

// spatialMvCandidates implements the spatial half of spec.md's find_mv_refs:
// scan the fixed neighbor offsets (mostly above and to the left) of the current
// block collecting up to two distinct candidate motion vectors. Temporal
// MV prediction from a previously decoded frame's motion field is a
// Non-goal here (this parser keeps no reference-frame pixel or motion
// buffers across ParseFrame calls; see DESIGN.md), so the scan is
// spatial-only and zero-fills any remaining candidate slots, matching
// the VP9 spec's own zero-fill fallback when fewer than two spatial
// candidates are found.
var mvRefBlocks = [8][2]int{
	{-1, 0}, {0, -1}, {-1, 1}, {1, -1},
	{-1, -1}, {-2, 0}, {0, -2}, {-2, -1},
}

func (d *Decoder) spatialMvCandidates(refFrame ReferenceFrame) [2]MV {
	b := &d.block
	var candidates [2]MV
	found := 0
	for _, off := range mvRefBlocks {
		r := b.MiRow + off[0]
		c := b.MiCol + off[1]
		if r < 0 || c < 0 || r >= d.header.MiRows || c >= d.header.MiCols {
			continue
		}
		if r >= len(d.neighbors.RefFrames) || c >= len(d.neighbors.RefFrames[r]) {
			continue
		}
		refs := d.neighbors.RefFrames[r][c]
		mvs := d.neighbors.BlockMvs[r][c]
		for k := 0; k < 2; k++ {
			if refs[k] != refFrame {
				continue
			}
			mv := mvs[k]
			dup := false
			for i := 0; i < found; i++ {
				if candidates[i] == mv {
					dup = true
					break
				}
			}
			if !dup {
				candidates[found] = mv
				found++
			}
		}
		if found >= 2 {
			break
		}
	}
	return candidates
}

// findBestRefMvs implements spec.md §4.10 find_best_ref_mvs: derive the
// spatial candidate list, clamp it to the frame's MV range, and store
// nearest/near in BlockInfo for assign_mv/append_sub8x8_mvs to read.
func (d *Decoder) findBestRefMvs(refList int) error {
	b := &d.block
	candidates := d.spatialMvCandidates(b.RefFrame[refList])
	clampMvRef(&candidates[0], d, b)
	clampMvRef(&candidates[1], d, b)
	b.BestMv[refList] = candidates
	return nil
}

func clampMvRef(mv *MV, d *Decoder, b *BlockInfo) {
	border := int32(128)
	minRow := int32(-(b.MiRow*64 + int(border)))
	maxRow := int32((d.header.MiRows-b.MiRow)*64 + int(border))
	minCol := int32(-(b.MiCol*64 + int(border)))
	maxCol := int32((d.header.MiCols-b.MiCol)*64 + int(border))
	mv.Row = clampInt32(mv.Row, minRow, maxRow)
	mv.Col = clampInt32(mv.Col, minCol, maxCol)
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// appendSub8x8Mvs implements spec.md §4.10 append_sub8x8_mvs: sub-8x8
// blocks decode one mode/MV per 4x4 partition instead of one for the
// whole mi, reusing the block-level nearest/near candidates as the base
// for each sub-block's own mv read.
func (d *Decoder) appendSub8x8Mvs(isCompound bool) error {
	b := &d.block
	w4 := num4x4BlocksWideLookup[b.MiSize]
	h4 := num4x4BlocksHighLookup[b.MiSize]
	numParts := (2 / w4) * (2 / h4)

	ctx := interModeContext(d)
	for idy := 0; idy < 2; idy += h4 {
		for idx := 0; idx < 2; idx += w4 {
			mode, err := d.tp.InterMode(d, ctx)
			if err != nil {
				return err
			}
			sub := idy*2 + idx

			if d.header.InterpolationFilter == Switchable && sub == 0 {
				filter, err := d.tp.InterpFilter(d)
				if err != nil {
					return err
				}
				b.InterpFilter = filter
			} else if sub == 0 {
				b.InterpFilter = d.header.InterpolationFilter
			}

			var mv [2]MV
			for j := 0; j < 1+boolIdx(isCompound); j++ {
				v, err := d.assignMv(j, mode)
				if err != nil {
					return err
				}
				mv[j] = v
			}
			if !isCompound {
				mv[1] = MV{}
			}

			b.MV = mv
			if numParts == 1 {
				b.InterMode = mode
			}
		}
	}
	return nil
}

// assignMv implements spec.md §4.10 assign_mv: ZEROMV clears, NEWMV reads
// an mv diff through read_mv and adds it to the best predictor, otherwise
// the nearest/near candidate is used directly.
func (d *Decoder) assignMv(refList int, mode InterMode) (MV, error) {
	b := &d.block
	switch mode {
	case ZeroMv:
		return MV{}, nil
	case NewMv:
		best := b.BestMv[refList][0]
		diff, err := d.readMv(refList)
		if err != nil {
			return MV{}, err
		}
		return MV{Row: best.Row + diff.Row, Col: best.Col + diff.Col}, nil
	case NearestMv:
		return b.BestMv[refList][0], nil
	default: // NearMv
		return b.BestMv[refList][1], nil
	}
}

// readMv implements spec.md §4.10 read_mv: a joint type selects which of
// the two components carry a nonzero delta, then each active component
// is decoded through read_mv_component.
func (d *Decoder) readMv(refList int) (MV, error) {
	joint, err := d.tp.MvJoint(d)
	if err != nil {
		return MV{}, err
	}
	var mv MV
	if joint == 2 || joint == 3 { // MV_JOINT_HZVNZ / HNZVNZ: row nonzero
		v, err := d.readMvComponent(0)
		if err != nil {
			return MV{}, err
		}
		mv.Row = v
	}
	if joint == 1 || joint == 3 { // MV_JOINT_HNZVZ / HNZVNZ: col nonzero
		v, err := d.readMvComponent(1)
		if err != nil {
			return MV{}, err
		}
		mv.Col = v
	}
	return mv, nil
}

// readMvComponent implements spec.md §4.10 read_mv_component's
// sign/class/class0/bits decomposition.
func (d *Decoder) readMvComponent(comp int) (int32, error) {
	sign, err := d.tp.MvSign(d, comp)
	if err != nil {
		return 0, err
	}
	class, err := d.tp.MvClass(d, comp)
	if err != nil {
		return 0, err
	}

	var mag int32
	allowHP := d.header.AllowHighPrecisionMV
	if class == 0 {
		class0Bit, err := d.tp.MvClass0Bit(d, comp)
		if err != nil {
			return 0, err
		}
		class0Fr, err := d.tp.MvClass0Fr(d, comp, class0Bit)
		if err != nil {
			return 0, err
		}
		class0Hp, err := d.tp.MvClass0Hp(d, comp, allowHP)
		if err != nil {
			return 0, err
		}
		mag = int32((class0Bit<<3)|(class0Fr<<1)|class0Hp) + 1
	} else {
		var bits int32
		for i := 0; i < class; i++ {
			bit, err := d.tp.MvBit(d, comp, i)
			if err != nil {
				return 0, err
			}
			bits |= int32(bit) << uint(i)
		}
		fr, err := d.tp.MvFr(d, comp)
		if err != nil {
			return 0, err
		}
		hp, err := d.tp.MvHp(d, comp, allowHP)
		if err != nil {
			return 0, err
		}
		mag = Class0Size<<uint(class+2) + 1
		mag += (bits << 3) | int32(fr<<1) | int32(hp)
	}
	if sign {
		return -mag, nil
	}
	return mag, nil
}
