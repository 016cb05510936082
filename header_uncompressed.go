package vp9

// uncompressedHeader implements spec.md §4.6's bit-exact field order,
// grounded on original_source's Decoder::uncompressed_header.
func (d *Decoder) uncompressedHeader() error {
	r := d.reader
	h := &d.header

	frameMarker, err := r.ReadF(2)
	if err != nil {
		return err
	}
	if frameMarker != 2 {
		return newParseError(CorruptBitstream, r.GetPosition()-2, "frame_marker")
	}

	profileLowBit, err := r.ReadBit()
	if err != nil {
		return err
	}
	profileHighBit, err := r.ReadBit()
	if err != nil {
		return err
	}
	h.Profile = profileHighBit<<1 + profileLowBit
	if h.Profile == 3 {
		if err := r.ReservedZero(d.opts.strictReservedBits, "profile_reserved_zero"); err != nil {
			return err
		}
	}

	showExistingFrame, err := r.ReadBit()
	if err != nil {
		return err
	}
	if showExistingFrame != 0 {
		h.ShowExistingFrame = true
		idx, err := r.ReadF(3)
		if err != nil {
			return err
		}
		h.FrameToShowMapIndex = int(idx)
		h.HeaderSizeInBytes = 0
		h.RefreshFrameFlags = 0
		h.LoopFilterLevel = 0
		return nil
	}

	frameTypeBit, err := r.ReadBit()
	if err != nil {
		return err
	}
	if frameTypeBit == 0 {
		h.FrameType = KeyFrame
	} else {
		h.FrameType = NonKeyFrame
	}

	showFrame, err := r.ReadBit()
	if err != nil {
		return err
	}
	h.ShowFrame = showFrame != 0

	errorResilient, err := r.ReadBit()
	if err != nil {
		return err
	}
	h.ErrorResilientMode = errorResilient != 0

	if h.FrameType == KeyFrame {
		if err := d.frameSyncCode(); err != nil {
			return err
		}
		if err := d.colorConfig(); err != nil {
			return err
		}
		if err := d.frameSize(); err != nil {
			return err
		}
		if err := d.renderSize(); err != nil {
			return err
		}
		h.RefreshFrameFlags = 0xFF
		h.FrameIsIntra = true
	} else {
		intraBit := 0
		if !h.ShowFrame {
			b, err := r.ReadBit()
			if err != nil {
				return err
			}
			intraBit = b
		}
		h.FrameIsIntra = intraBit != 0

		if !h.ErrorResilientMode {
			v, err := r.ReadF(2)
			if err != nil {
				return err
			}
			h.ResetFrameContext = int(v)
		} else {
			h.ResetFrameContext = 0
		}

		if h.FrameIsIntra {
			if err := d.frameSyncCode(); err != nil {
				return err
			}
			if h.Profile > 0 {
				if err := d.colorConfig(); err != nil {
					return err
				}
			} else {
				h.ColorSpace = CsBt601
				h.SubsamplingX = true
				h.SubsamplingY = true
				h.BitDepth = 8
			}
			flags, err := r.ReadF8()
			if err != nil {
				return err
			}
			h.RefreshFrameFlags = flags
			if err := d.frameSize(); err != nil {
				return err
			}
			if err := d.renderSize(); err != nil {
				return err
			}
		} else {
			flags, err := r.ReadF8()
			if err != nil {
				return err
			}
			h.RefreshFrameFlags = flags
			for i := 0; i < RefsPerFrame; i++ {
				idx, err := r.ReadF(3)
				if err != nil {
					return err
				}
				h.RefFrameIdx[i] = int(idx)
				sign, err := r.ReadBit()
				if err != nil {
					return err
				}
				h.RefFrameSignBias[int(LastFrame)+i] = sign
			}
			if err := d.frameSizeWithRefs(); err != nil {
				return err
			}
			hp, err := r.ReadBit()
			if err != nil {
				return err
			}
			h.AllowHighPrecisionMV = hp != 0
			if err := d.readInterpolationFilter(); err != nil {
				return err
			}
		}
	}

	if !h.ErrorResilientMode {
		rfc, err := r.ReadBit()
		if err != nil {
			return err
		}
		h.RefreshFrameContext = rfc != 0
		fpd, err := r.ReadBit()
		if err != nil {
			return err
		}
		h.FrameParallelDecodingMode = fpd != 0
	} else {
		h.RefreshFrameContext = false
		h.FrameParallelDecodingMode = true
	}

	fcIdx, err := r.ReadF(2)
	if err != nil {
		return err
	}
	h.FrameContextIdx = int(fcIdx)

	if h.FrameIsIntra || h.ErrorResilientMode {
		d.setupPastIndependence()
		if h.FrameType == KeyFrame || h.ErrorResilientMode || h.ResetFrameContext == 3 {
			for i := 0; i < 4; i++ {
				d.probTables.SaveProbs(i)
			}
		} else if h.ResetFrameContext == 2 {
			d.probTables.SaveProbs(h.FrameContextIdx)
		}
		h.FrameContextIdx = 0
	}

	if err := d.loopFilterParams(); err != nil {
		return err
	}
	if err := d.quantizationParams(); err != nil {
		return err
	}
	if err := d.segmentationParams(); err != nil {
		return err
	}
	if err := d.tileInfo(); err != nil {
		return err
	}

	headerSize, err := r.ReadF16()
	if err != nil {
		return err
	}
	h.HeaderSizeInBytes = int(headerSize)

	if d.opts.maxWidth > 0 && h.FrameWidth > d.opts.maxWidth {
		return newParseError(InvalidDimensions, r.GetPosition(), "frame_width")
	}
	if d.opts.maxHeight > 0 && h.FrameHeight > d.opts.maxHeight {
		return newParseError(InvalidDimensions, r.GetPosition(), "frame_height")
	}

	return nil
}

func (d *Decoder) frameSyncCode() error {
	r := d.reader
	b0, err := r.ReadByte()
	if err != nil {
		return err
	}
	if b0 != 0x49 {
		return newParseError(CorruptBitstream, r.GetPosition()-8, "frame_sync_code")
	}
	b1, err := r.ReadByte()
	if err != nil {
		return err
	}
	if b1 != 0x83 {
		return newParseError(CorruptBitstream, r.GetPosition()-8, "frame_sync_code")
	}
	b2, err := r.ReadByte()
	if err != nil {
		return err
	}
	if b2 != 0x42 {
		return newParseError(CorruptBitstream, r.GetPosition()-8, "frame_sync_code")
	}
	return nil
}

func (d *Decoder) colorConfig() error {
	r := d.reader
	h := &d.header

	if h.Profile >= 2 {
		bit, err := r.ReadBit()
		if err != nil {
			return err
		}
		if bit != 0 {
			h.BitDepth = 12
		} else {
			h.BitDepth = 10
		}
	} else {
		h.BitDepth = 8
	}

	cs, err := r.ReadF(3)
	if err != nil {
		return err
	}
	if cs > uint32(CsRGB) {
		return newParseError(CorruptBitstream, r.GetPosition()-3, "color_space")
	}
	h.ColorSpace = ColorSpace(cs)

	if h.ColorSpace != CsRGB {
		rangeBit, err := r.ReadBit()
		if err != nil {
			return err
		}
		if rangeBit != 0 {
			h.ColorRange = FullSwing
		} else {
			h.ColorRange = StudioSwing
		}
		if h.Profile == 1 || h.Profile == 3 {
			sx, err := r.ReadBit()
			if err != nil {
				return err
			}
			sy, err := r.ReadBit()
			if err != nil {
				return err
			}
			h.SubsamplingX = sx != 0
			h.SubsamplingY = sy != 0
			if err := r.ReservedZero(d.opts.strictReservedBits, "color_config_reserved_zero"); err != nil {
				return err
			}
		} else {
			h.SubsamplingX = true
			h.SubsamplingY = true
		}
	} else {
		h.ColorRange = FullSwing
		if h.Profile == 1 || h.Profile == 3 {
			h.SubsamplingX = false
			h.SubsamplingY = false
			if err := r.ReservedZero(d.opts.strictReservedBits, "color_config_reserved_zero"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) frameSize() error {
	r := d.reader
	h := &d.header
	w, err := r.ReadF16()
	if err != nil {
		return err
	}
	hh, err := r.ReadF16()
	if err != nil {
		return err
	}
	h.FrameWidth = int(w) + 1
	h.FrameHeight = int(hh) + 1
	if h.FrameWidth < 1 || h.FrameHeight < 1 {
		return newParseError(InvalidDimensions, r.GetPosition(), "frame_size")
	}
	d.computeImageSize()
	return nil
}

func (d *Decoder) renderSize() error {
	r := d.reader
	h := &d.header
	differ, err := r.ReadBit()
	if err != nil {
		return err
	}
	if differ != 0 {
		w, err := r.ReadF16()
		if err != nil {
			return err
		}
		hh, err := r.ReadF16()
		if err != nil {
			return err
		}
		h.RenderWidth = int(w) + 1
		h.RenderHeight = int(hh) + 1
	} else {
		h.RenderWidth = h.FrameWidth
		h.RenderHeight = h.FrameHeight
	}
	return nil
}

// frameSizeWithRefs implements spec.md §4.6: try each reference slot for
// a matching size before falling back to an explicit frame_size. This
// parser does not track reference-frame geometry across calls (pixel
// reconstruction is out of scope). When a found_ref bit is set, frame_size
// is not read and the size is not copied from that reference: FrameWidth
// and FrameHeight keep their current values (zero on a fresh header) and
// the mi/sb64 counts are derived from them. See DESIGN.md.
func (d *Decoder) frameSizeWithRefs() error {
	r := d.reader
	foundRef := false
	for i := 0; i < RefsPerFrame; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return err
		}
		if bit != 0 {
			foundRef = true
			break
		}
	}
	if !foundRef {
		if err := d.frameSize(); err != nil {
			return err
		}
	} else {
		d.computeImageSize()
	}
	return d.renderSize()
}

func (d *Decoder) computeImageSize() {
	h := &d.header
	h.MiCols = (h.FrameWidth + 7) >> 3
	h.MiRows = (h.FrameHeight + 7) >> 3
	h.Sb64Cols = (h.MiCols + 7) >> 3
	h.Sb64Rows = (h.MiRows + 7) >> 3
}

func (d *Decoder) readInterpolationFilter() error {
	r := d.reader
	h := &d.header
	bit, err := r.ReadBit()
	if err != nil {
		return err
	}
	if bit != 0 {
		h.InterpolationFilter = Switchable
		return nil
	}
	v, err := r.ReadF(2)
	if err != nil {
		return err
	}
	h.InterpolationFilter = literalToType[v]
	return nil
}

func (d *Decoder) loopFilterParams() error {
	r := d.reader
	h := &d.header

	level, err := r.ReadF(6)
	if err != nil {
		return err
	}
	h.LoopFilterLevel = int(level)

	sharpness, err := r.ReadF(3)
	if err != nil {
		return err
	}
	h.LoopFilterSharpness = int(sharpness)

	deltaEnabled, err := r.ReadBit()
	if err != nil {
		return err
	}
	h.LoopFilterDeltaEnabled = deltaEnabled != 0

	if h.LoopFilterDeltaEnabled {
		updateBit, err := r.ReadBit()
		if err != nil {
			return err
		}
		if updateBit != 0 {
			for i := 0; i < 4; i++ {
				present, err := r.ReadBit()
				if err != nil {
					return err
				}
				if present != 0 {
					v, err := r.ReadS(6)
					if err != nil {
						return err
					}
					h.LoopFilterRefDeltas[i] = int8(v)
				}
			}
			for i := 0; i < 2; i++ {
				present, err := r.ReadBit()
				if err != nil {
					return err
				}
				if present != 0 {
					v, err := r.ReadS(6)
					if err != nil {
						return err
					}
					h.LoopFilterModeDeltas[i] = int8(v)
				}
			}
		}
	}
	return nil
}

func (d *Decoder) readDeltaQ() (int, error) {
	r := d.reader
	present, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if present != 0 {
		v, err := r.ReadS(4)
		if err != nil {
			return 0, err
		}
		return int(v), nil
	}
	return 0, nil
}

func (d *Decoder) quantizationParams() error {
	r := d.reader
	h := &d.header

	baseQIdx, err := r.ReadByte()
	if err != nil {
		return err
	}
	h.BaseQIdx = int(baseQIdx)

	dqYDc, err := d.readDeltaQ()
	if err != nil {
		return err
	}
	h.DeltaQYDc = dqYDc

	dqUVDc, err := d.readDeltaQ()
	if err != nil {
		return err
	}
	h.DeltaQUVDc = dqUVDc

	dqUVAc, err := d.readDeltaQ()
	if err != nil {
		return err
	}
	h.DeltaQUVAc = dqUVAc

	h.Lossless = h.BaseQIdx == 0 && h.DeltaQYDc == 0 && h.DeltaQUVDc == 0 && h.DeltaQUVAc == 0
	return nil
}

func (d *Decoder) readProb() (uint8, error) {
	r := d.reader
	present, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if present != 0 {
		return r.ReadByte()
	}
	return 255, nil
}

func (d *Decoder) segmentationParams() error {
	r := d.reader
	seg := &d.header.Segmentation

	enabled, err := r.ReadBit()
	if err != nil {
		return err
	}
	seg.Enabled = enabled != 0
	if !seg.Enabled {
		return nil
	}

	updateMap, err := r.ReadBit()
	if err != nil {
		return err
	}
	seg.UpdateMap = updateMap != 0
	if seg.UpdateMap {
		for i := 0; i < 7; i++ {
			p, err := d.readProb()
			if err != nil {
				return err
			}
			seg.TreeProbs[i] = p
		}
		temporal, err := r.ReadBit()
		if err != nil {
			return err
		}
		seg.TemporalUpdate = temporal != 0
		for i := 0; i < 3; i++ {
			if seg.TemporalUpdate {
				p, err := d.readProb()
				if err != nil {
					return err
				}
				seg.PredProb[i] = p
			} else {
				seg.PredProb[i] = 255
			}
		}
	}

	// segmentation_update_data: unused bit the VP9 spec still requires
	// every decoder to consume.
	if _, err := r.ReadBit(); err != nil {
		return err
	}

	absOrDelta, err := r.ReadBit()
	if err != nil {
		return err
	}
	seg.AbsOrDeltaUpdate = absOrDelta != 0

	for i := 0; i < MaxSegments; i++ {
		for j := 0; j < SegLvlMax; j++ {
			featureValue := 0
			featureEnabled, err := r.ReadBit()
			if err != nil {
				return err
			}
			seg.FeatureEnabled[i][j] = featureEnabled != 0
			if featureEnabled != 0 {
				bits := segmentationFeatureBits[j]
				v, err := r.ReadF(bits)
				if err != nil {
					return err
				}
				featureValue = int(v)
				if segmentationFeatureSigned[j] {
					sign, err := r.ReadBit()
					if err != nil {
						return err
					}
					if sign != 0 {
						featureValue = -featureValue
					}
				}
			}
			seg.FeatureData[i][j] = featureValue
		}
	}
	return nil
}

func (d *Decoder) tileInfo() error {
	r := d.reader
	h := &d.header

	minLog2 := calcMinLog2TileCols(h.Sb64Cols)
	maxLog2 := calcMaxLog2TileCols(h.Sb64Cols)

	h.TileColsLog2 = minLog2
	for h.TileColsLog2 < maxLog2 {
		bit, err := r.ReadBit()
		if err != nil {
			return err
		}
		if bit != 0 {
			h.TileColsLog2++
		} else {
			break
		}
	}

	rowsLog2, err := r.ReadBit()
	if err != nil {
		return err
	}
	h.TileRowsLog2 = rowsLog2
	if h.TileRowsLog2 != 0 {
		extra, err := r.ReadBit()
		if err != nil {
			return err
		}
		h.TileRowsLog2 += extra
	}
	return nil
}

func calcMinLog2TileCols(sb64Cols int) int {
	minLog2 := 0
	for (MaxTileWidthB64 << uint(minLog2)) < sb64Cols {
		minLog2++
	}
	return minLog2
}

func calcMaxLog2TileCols(sb64Cols int) int {
	maxLog2 := 1
	for (sb64Cols >> uint(maxLog2)) >= MinTileWidthB64 {
		maxLog2++
	}
	return maxLog2 - 1
}

// setupPastIndependence is the reset that makes a frame parseable without
// any prior frame's state (spec.md GLOSSARY "Past-independence").
func (d *Decoder) setupPastIndependence() {
	h := &d.header
	for i := 0; i < MaxSegments; i++ {
		for j := 0; j < SegLvlMax; j++ {
			h.Segmentation.FeatureData[i][j] = 0
			h.Segmentation.FeatureEnabled[i][j] = false
		}
	}
	h.Segmentation.AbsOrDeltaUpdate = false

	for row := range d.neighbors.PrevSegmentIds {
		for col := range d.neighbors.PrevSegmentIds[row] {
			d.neighbors.PrevSegmentIds[row][col] = 0
		}
	}

	h.LoopFilterDeltaEnabled = true
	h.LoopFilterRefDeltas[IntraFrame] = 1
	h.LoopFilterRefDeltas[LastFrame] = 0
	h.LoopFilterRefDeltas[GoldenFrame] = -1
	h.LoopFilterRefDeltas[AltRefFrame] = -1
	h.LoopFilterModeDeltas[0] = 0
	h.LoopFilterModeDeltas[1] = 0

	d.probTables.ResetProbs()
}
