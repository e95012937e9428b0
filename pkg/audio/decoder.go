package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
)

// Decoder converts an opaque encoded audio blob (browser recording,
// uploaded file) into normalized samples by shelling out to ffmpeg.
// Every failure mode collapses into domain.ErrDecode with the cause
// attached; callers only need to know decoding failed.
type Decoder struct {
	ffmpegPath string
	sampleRate int
}

// NewDecoder creates a Decoder. ffmpegPath may be a bare binary name
// resolved via PATH. sampleRate is the target rate of the decoded output.
func NewDecoder(ffmpegPath string, sampleRate int) *Decoder {
	return &Decoder{
		ffmpegPath: ffmpegPath,
		sampleRate: sampleRate,
	}
}

// Decode writes raw to a temporary file, transcodes it to mono PCM-16
// WAV, and parses the result. Temporary artifacts are removed on every
// exit path. Decode failures are not retried.
func (d *Decoder) Decode(ctx context.Context, raw []byte) ([]float32, int, error) {
	if len(raw) == 0 {
		return nil, 0, fmt.Errorf("%w: empty input", domain.ErrDecode)
	}

	in, err := os.CreateTemp("", "artifyai-rec-*.webm")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: creating temp input: %v", domain.ErrDecode, err)
	}
	inPath := in.Name()
	outPath := strings.TrimSuffix(inPath, ".webm") + ".wav"
	defer func() {
		os.Remove(inPath)
		os.Remove(outPath)
	}()

	if _, err := in.Write(raw); err != nil {
		in.Close()
		return nil, 0, fmt.Errorf("%w: writing temp input: %v", domain.ErrDecode, err)
	}
	if err := in.Close(); err != nil {
		return nil, 0, fmt.Errorf("%w: closing temp input: %v", domain.ErrDecode, err)
	}

	cmd := exec.CommandContext(ctx, d.ffmpegPath,
		"-y",
		"-i", inPath,
		"-ac", "1",
		"-ar", strconv.Itoa(d.sampleRate),
		"-f", "wav",
		outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		slog.Debug("ffmpeg failed", "error", err, "output", string(out))
		return nil, 0, fmt.Errorf("%w: ffmpeg: %v", domain.ErrDecode, err)
	}

	decoded, err := os.ReadFile(outPath)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: decoded output missing: %v", domain.ErrDecode, err)
	}

	samples, rate, err := DecodeWAV(decoded)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return samples, rate, nil
}
