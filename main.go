package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/photomark/photomark/internal/config"
	"github.com/photomark/photomark/internal/logging"
	"github.com/photomark/photomark/pkg/watermarker"
)

var rootCmd = &cobra.Command{
	Use:   "photomark [batchFiles...]",
	Short: "Overlay a styled text watermark onto photos and videos",
	Long: `photomark overlays a positioned text watermark with a drop shadow onto
photos and videos. Font size, margins, and shadow geometry all scale with the
input's resolution, so the same style looks consistent across differently
sized files.

A successful single-file run writes a <input>.json sidecar next to the input
recording the style used. Batch mode replays those sidecars, e.g. on the video
companion of a previously watermarked photo.

Examples:
  # Watermark a single photo
  photomark -t "shot by me" -i photo.jpg -o photo_wm.jpg

  # Replay recorded styles over every file in the current directory
  photomark .`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := &watermarker.Options{}

		opts.Text, _ = cmd.Flags().GetStringArray("text")
		opts.Position, _ = cmd.Flags().GetString("position")
		opts.FontFamily, _ = cmd.Flags().GetString("font-family")
		opts.FontSize, _ = cmd.Flags().GetFloat64("font-size")
		opts.Opacity, _ = cmd.Flags().GetFloat64("opacity")
		opts.LineSpacing, _ = cmd.Flags().GetFloat64("line-spacing")
		opts.ShadowOffset, _ = cmd.Flags().GetFloat64("shadow-offset")
		opts.ShadowBlurRadius, _ = cmd.Flags().GetFloat64("shadow-blur-radius")
		opts.InputFile, _ = cmd.Flags().GetString("input-file")
		opts.OutputFile, _ = cmd.Flags().GetString("output-file")
		opts.Quality, _ = cmd.Flags().GetInt("quality")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")

		logging.Init(opts.Verbose)

		if len(args) > 0 {
			return watermarker.RunBatch(args, opts)
		}
		return watermarker.RunSingle(opts)
	},
}

func init() {
	rootCmd.Flags().StringArrayP("text", "t", nil, "Watermark text (repeat for multiple lines)")
	rootCmd.Flags().StringP("position", "p", config.DefaultPosition, "Watermark position (left/right top/bottom)")
	rootCmd.Flags().StringP("font-family", "F", config.DefaultFontFamily, "Comma-separated font family priority list")
	rootCmd.Flags().Float64P("font-size", "S", config.DefaultFontSize, "Font size scale factor")
	rootCmd.Flags().Float64P("opacity", "O", config.DefaultOpacity, "Watermark opacity (0-1)")
	rootCmd.Flags().Float64("line-spacing", config.DefaultLineSpacing, "Spacing between lines as a fraction of line height")
	rootCmd.Flags().Float64("shadow-offset", config.DefaultShadowOffset, "Shadow offset as a fraction of the margin")
	rootCmd.Flags().Float64("shadow-blur-radius", config.DefaultShadowBlurRadius, "Shadow blur radius as a fraction of the margin")
	rootCmd.Flags().StringP("input-file", "i", "", "Input photo or video")
	rootCmd.Flags().StringP("output-file", "o", "", "Output path")
	rootCmd.Flags().IntP("quality", "q", config.DefaultQuality, "JPEG output quality")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
