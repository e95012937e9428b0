package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
)

// fakeFFmpeg writes a shell script that stands in for ffmpeg: it copies
// the WAV at $FAKE_WAV_SOURCE to the output path (the last argument).
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake ffmpeg: %v", err)
	}
	return path
}

func TestDecode(t *testing.T) {
	// The fixture mirrors real ffmpeg output, metadata chunk included.
	wav := ffmpegStyleWAV(t, []int16{3277, -6554, 9830}, 16000)
	src := filepath.Join(t.TempDir(), "fixture.wav")
	if err := os.WriteFile(src, wav, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	t.Setenv("FAKE_WAV_SOURCE", src)

	ffmpeg := fakeFFmpeg(t, `#!/bin/sh
for out; do :; done
cp "$FAKE_WAV_SOURCE" "$out"
`)

	d := NewDecoder(ffmpeg, 16000)
	samples, rate, err := d.Decode(context.Background(), []byte("opaque webm bytes"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if rate != 16000 {
		t.Errorf("expected sample rate 16000, got %d", rate)
	}
	if len(samples) != 3 {
		t.Errorf("expected 3 samples, got %d", len(samples))
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	d := NewDecoder("ffmpeg", 16000)
	_, _, err := d.Decode(context.Background(), nil)
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDecodeFFmpegFailure(t *testing.T) {
	ffmpeg := fakeFFmpeg(t, "#!/bin/sh\nexit 1\n")

	d := NewDecoder(ffmpeg, 16000)
	_, _, err := d.Decode(context.Background(), []byte("not audio"))
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDecodeMissingBinary(t *testing.T) {
	d := NewDecoder(filepath.Join(t.TempDir(), "missing"), 16000)
	_, _, err := d.Decode(context.Background(), []byte("not audio"))
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDecodeCleansUpTempFiles(t *testing.T) {
	ffmpeg := fakeFFmpeg(t, "#!/bin/sh\nexit 1\n")
	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	d := NewDecoder(ffmpeg, 16000)
	d.Decode(context.Background(), []byte("not audio"))

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected temp artifacts removed, found %d entries", len(entries))
	}
}
