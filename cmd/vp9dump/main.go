// Command vp9dump parses raw VP9 frame payloads from disk and prints the
// resulting frame header and syntax-token stream, for inspection during
// development. It never touches container framing (IVF/WebM/etc.) -
// callers are expected to have already sliced out one frame's bytes.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	vp9 "github.com/wrenlake/vp9-parser"
)

var (
	jsonOutput       bool
	maxWidth         int
	maxHeight        int
	noStrictReserved bool
	verbose          bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vp9dump",
		Short: "Inspect raw VP9 frame payloads",
	}
	root.AddCommand(newParseCmd())
	return root
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file> [files...]",
		Short: "Parse one or more raw VP9 frame files and print their header and token stream",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print as JSON instead of a table")
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "reject frames wider than this many pixels (0 = no cap)")
	cmd.Flags().IntVar(&maxHeight, "max-height", 0, "reject frames taller than this many pixels (0 = no cap)")
	cmd.Flags().BoolVar(&noStrictReserved, "no-strict-reserved-bits", false, "don't fail on nonzero reserved-zero bits")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger().Level(level)

	opts := []vp9.Option{
		vp9.WithLogger(logger),
		vp9.WithStrictReservedBits(!noStrictReserved),
	}
	if maxWidth > 0 || maxHeight > 0 {
		opts = append(opts, vp9.WithMaxDimensions(maxWidth, maxHeight))
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}

		decoder := vp9.NewDecoder(opts...)
		result, err := decoder.ParseFrame(data)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", path)
		}

		if jsonOutput {
			if err := printJSON(cmd, path, result); err != nil {
				return err
			}
			continue
		}
		printTable(cmd, path, result)
	}
	return nil
}

func printJSON(cmd *cobra.Command, path string, result *vp9.FrameResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.Wrapf(enc.Encode(result), "encoding %s", path)
}

func printTable(cmd *cobra.Command, path string, result *vp9.FrameResult) {
	out := cmd.OutOrStdout()
	h := result.Header
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  frame_type=%v show_frame=%v error_resilient=%v\n", h.FrameType, h.ShowFrame, h.ErrorResilientMode)
	if h.ShowExistingFrame {
		fmt.Fprintf(out, "  show_existing_frame frame_to_show_map_index=%d\n", h.FrameToShowMapIndex)
		return
	}
	fmt.Fprintf(out, "  size=%dx%d mi=%dx%d sb64=%dx%d lossless=%v tx_mode=%v\n",
		h.FrameWidth, h.FrameHeight, h.MiCols, h.MiRows, h.Sb64Cols, h.Sb64Rows, h.Lossless, h.TxMode)
	fmt.Fprintf(out, "  segmentation_enabled=%v tiles=%dx%d blocks=%d\n",
		h.Segmentation.Enabled, 1<<uint(h.TileColsLog2), 1<<uint(h.TileRowsLog2), len(result.Blocks))
	for i, b := range result.Blocks {
		fmt.Fprintf(out, "  block[%d] mi=(%d,%d) size=%v skip=%v inter=%v tx=%v y_mode=%v ref=%v mv=%v\n",
			i, b.MiRow, b.MiCol, b.MiSize, b.Skip, b.IsInter, b.TxSize, b.YMode, b.RefFrame, b.MV)
	}
}
