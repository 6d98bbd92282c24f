// Package transcode converts downloaded audio containers to the delivery
// codec by shelling out to ffmpeg.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/ghsss/real-time-translator-client/internal/logger"
)

// Converter turns the downloaded audio container into the delivery format.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

const (
	defaultBinary  = "ffmpeg"
	defaultQuality = 96
)

// FFmpeg converts audio by invoking the ffmpeg binary. The target format is
// inferred by ffmpeg from the output file extension.
type FFmpeg struct {
	binary  string
	quality int
}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{binary: defaultBinary, quality: defaultQuality}
}

func (f *FFmpeg) Convert(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, f.binary, f.args(inputPath, outputPath)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg %s -> %s: %w: %s", inputPath, outputPath, err, lastLine(stderr.String()))
	}

	logger.Debug("transcode finished", "input", inputPath, "output", outputPath)
	return nil
}

func (f *FFmpeg) args(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-q:a", strconv.Itoa(f.quality),
		outputPath,
	}
}

// lastLine trims ffmpeg's banner noise down to the line that usually carries
// the actual failure.
func lastLine(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}

	start := end
	for start > 0 && s[start-1] != '\n' {
		start--
	}

	return s[start:end]
}
