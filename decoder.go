package vp9

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BlockToken is one decoded partition-tree leaf with the syntax elements
// that would drive reconstruction (spec.md §6 "Output (programmatic)").
type BlockToken struct {
	MiRow, MiCol int
	MiSize       BlockSize
	SegmentID    int
	Skip         bool
	IsInter      bool
	TxSize       TxSize
	YMode        IntraPredictionMode
	UVMode       IntraPredictionMode
	SubModes     [4]IntraPredictionMode
	RefFrame     [2]ReferenceFrame
	InterMode    InterMode
	InterpFilter InterpolationFilter
	MV           [2]MV
}

// FrameResult is the populated frame-context plus the stream of decoded
// syntax tokens that spec.md §6 defines as this parser's output.
type FrameResult struct {
	Header FrameHeader
	Counts Counts
	Blocks []BlockToken
}

// Decoder owns everything that persists across frames within one decoder
// instance (spec.md §5): the four saved probability banks, the working
// probability set, and the neighbor-context arrays. No concurrent
// ParseFrame call is permitted; the caller serializes (single-threaded,
// synchronous model).
type Decoder struct {
	opts   decoderOptions
	logger zerolog.Logger

	probTables ProbabilityTables
	neighbors  NeighborContext

	lastFrameType FrameType
	frameSeq      int64

	// Ephemeral per-ParseFrame state.
	reader *BitReader
	bd     BoolDecoder
	counts Counts
	header FrameHeader
	block  BlockInfo
	tp     TreeParser
	blocks []BlockToken
}

type decoderOptions struct {
	maxWidth, maxHeight int
	strictReservedBits  bool
}

// Option configures a Decoder at construction time (spec.md §6
// "Configuration").
type Option func(*Decoder)

// WithMaxDimensions rejects streams whose frame dimensions exceed the
// given caps (spec.md §6 max_width/max_height).
func WithMaxDimensions(width, height int) Option {
	return func(d *Decoder) {
		d.opts.maxWidth = width
		d.opts.maxHeight = height
	}
}

// WithStrictReservedBits toggles strict_reserved_bits (default true):
// when disabled, reserved-zero bits are consumed but not checked for
// equality (spec.md §9).
func WithStrictReservedBits(strict bool) Option {
	return func(d *Decoder) { d.opts.strictReservedBits = strict }
}

// WithLogger overrides the decoder's structured logger. Every exported
// entry point logs through the instance's own logger rather than a
// package-level global, so a caller embedding the parser in a larger
// pipeline can redirect logs freely.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Decoder) { d.logger = logger }
}

// WithLogLevel sets the minimum level the decoder's logger emits at.
func WithLogLevel(level zerolog.Level) Option {
	return func(d *Decoder) { d.logger = d.logger.Level(level) }
}

// NewDecoder builds a Decoder with defaults matching spec.md §6: no hard
// dimension caps, strict reserved-bit checking on.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}
	d.opts.strictReservedBits = true
	for _, opt := range opts {
		opt(d)
	}
	d.probTables.LoadDefaults()
	for i := 0; i < 4; i++ {
		d.probTables.SaveProbs(i)
	}
	return d
}

// ParseFrame parses exactly one VP9 frame payload (spec.md §6 "Input").
// Every parsing routine is total: on failure the decoder's saved
// probability banks are put back to what they held before this call, so a
// later ParseFrame call sees them as if the failing frame never arrived
// (spec.md §7 propagation policy).
func (d *Decoder) ParseFrame(data []byte) (*FrameResult, error) {
	d.frameSeq++
	log := d.logger.With().Int64("frame_seq", d.frameSeq).Logger()

	// setup_past_independence may overwrite the saved banks before a later
	// step fails; restore them unless the whole frame parses.
	savedBanks := d.probTables.saved
	ok := false
	defer func() {
		if !ok {
			d.probTables.saved = savedBanks
		}
	}()

	d.reader = NewBitReader(data)
	d.counts.ClearCounts()
	d.header = FrameHeader{}
	d.blocks = d.blocks[:0]

	if err := d.uncompressedHeader(); err != nil {
		return nil, errors.Wrap(err, "uncompressed_header")
	}
	log.Debug().Msg("finished reading uncompressed header")

	if err := d.reader.TrailingBits(d.opts.strictReservedBits); err != nil {
		return nil, errors.Wrap(err, "trailing_bits")
	}

	if d.header.ShowExistingFrame {
		log.Debug().Int("frame_to_show_map_index", d.header.FrameToShowMapIndex).Msg("show_existing_frame: no header")
		ok = true
		return &FrameResult{Header: d.header, Counts: d.counts}, nil
	}

	d.probTables.LoadProbs(d.header.FrameContextIdx)
	d.probTables.LoadProbs2(d.header.FrameContextIdx)
	d.counts.ClearCounts()

	if err := d.bd.InitBool(d.reader, d.header.HeaderSizeInBytes); err != nil {
		return nil, errors.Wrap(err, "init_bool(compressed_header)")
	}
	log.Debug().Msg("reading compressed header")
	if err := d.compressedHeader(); err != nil {
		return nil, errors.Wrap(err, "compressed_header")
	}
	log.Debug().Msg("finished reading compressed header")
	if err := d.bd.ExitBool(); err != nil {
		return nil, errors.Wrap(err, "exit_bool(compressed_header)")
	}

	if err := d.decodeTiles(); err != nil {
		return nil, errors.Wrap(err, "decode_tiles")
	}
	log.Debug().Msg("finished reading frame")

	d.lastFrameType = d.header.FrameType

	ok = true
	return &FrameResult{Header: d.header, Counts: d.counts, Blocks: append([]BlockToken(nil), d.blocks...)}, nil
}
