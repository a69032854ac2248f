package ffmpeg

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoMetadata contains metadata about a video file's first video stream.
type VideoMetadata struct {
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// probeResult matches the subset of ffprobe JSON output we consume.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// Probe retrieves the dimensions, codec, and duration of the first
// video stream of inputPath.
func Probe(inputPath string) (*VideoMetadata, error) {
	raw, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error probing video %s", inputPath)
	}
	return parseProbe(raw, inputPath)
}

func parseProbe(raw, inputPath string) (*VideoMetadata, error) {
	var probe probeResult
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, errors.WithStack(err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		meta := &VideoMetadata{
			Width:  stream.Width,
			Height: stream.Height,
			Codec:  stream.CodecName,
		}

		// Stream duration when present, format duration otherwise.
		if d, err := strconv.ParseFloat(strings.TrimSpace(stream.Duration), 64); err == nil {
			meta.Duration = d
		} else if d, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64); err == nil {
			meta.Duration = d
		}

		if meta.Width <= 0 || meta.Height <= 0 {
			return nil, fmt.Errorf("video stream of %s has no dimensions", inputPath)
		}
		return meta, nil
	}

	return nil, fmt.Errorf("no video stream found in %s", inputPath)
}

// Overlay composites overlayPath on top of every frame of inputPath at
// offset (0,0) and writes the result to outputPath. When overwrite is
// false an existing output file is refused before ffmpeg is invoked.
func Overlay(inputPath, overlayPath, outputPath string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("output file already exists: %s", outputPath)
		}
	}

	main := ffmpeg.Input(inputPath)
	wm := ffmpeg.Input(overlayPath)

	err := ffmpeg.Filter([]*ffmpeg.Stream{main, wm}, "overlay", ffmpeg.Args{
		fmt.Sprintf("x=%d", 0),
		fmt.Sprintf("y=%d", 0),
	}).
		Output(outputPath).
		OverWriteOutput().
		ErrorToStdOut().
		Run()
	if err != nil {
		return errors.Wrapf(err, "failed to overlay watermark onto %s", inputPath)
	}

	return nil
}
