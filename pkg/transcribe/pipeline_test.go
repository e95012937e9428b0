package transcribe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
	"github.com/OmkarYeole/ArtifyAI/pkg/metrics"
)

type fakeDecoder struct {
	samples []float32
	rate    int
	err     error
}

func (f *fakeDecoder) Decode(ctx context.Context, raw []byte) ([]float32, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.samples, f.rate, nil
}

type fakeTranscriber struct {
	text string
	err  error

	gotSamples []float32
	gotRate    int
	chunkSizes []int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, samples []float32, rate int) (string, error) {
	f.gotSamples = samples
	f.gotRate = rate
	f.chunkSizes = append(f.chunkSizes, len(samples))
	return f.text, f.err
}

func TestPipelineTranscribe(t *testing.T) {
	decoder := &fakeDecoder{samples: []float32{0.1, 0.2}, rate: 16000}
	transcriber := &fakeTranscriber{text: "hello world"}
	p := NewPipeline(decoder, transcriber, 0, nil)

	text, err := p.Transcribe(context.Background(), []byte("raw"))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", text)
	}
	if transcriber.gotRate != 16000 || len(transcriber.gotSamples) != 2 {
		t.Errorf("decoded audio not forwarded: rate=%d samples=%d",
			transcriber.gotRate, len(transcriber.gotSamples))
	}
}

func TestPipelineDecodeFailure(t *testing.T) {
	decoder := &fakeDecoder{err: fmt.Errorf("%w: bad blob", domain.ErrDecode)}
	transcriber := &fakeTranscriber{text: "unused"}
	p := NewPipeline(decoder, transcriber, 0, nil)

	_, err := p.Transcribe(context.Background(), []byte("raw"))
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if transcriber.gotSamples != nil {
		t.Error("transcriber should not run after a decode failure")
	}
}

func TestPipelineTranscriptionFailure(t *testing.T) {
	decoder := &fakeDecoder{samples: []float32{0.1}, rate: 16000}
	transcriber := &fakeTranscriber{err: fmt.Errorf("%w: upstream", domain.ErrTranscription)}
	p := NewPipeline(decoder, transcriber, 0, nil)

	_, err := p.Transcribe(context.Background(), []byte("raw"))
	if !errors.Is(err, domain.ErrTranscription) {
		t.Fatalf("expected ErrTranscription, got %v", err)
	}
}

func TestPipelineSegmentsLongAudio(t *testing.T) {
	// 10 samples at 4 Hz with a 1 second bound: chunks of 4, 4, 2.
	decoder := &fakeDecoder{samples: make([]float32, 10), rate: 4}
	transcriber := &fakeTranscriber{text: "part"}
	p := NewPipeline(decoder, transcriber, 1, nil)

	text, err := p.Transcribe(context.Background(), []byte("raw"))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "part part part" {
		t.Errorf("expected joined chunk transcripts, got %q", text)
	}
	want := []int{4, 4, 2}
	if len(transcriber.chunkSizes) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), transcriber.chunkSizes)
	}
	for i := range want {
		if transcriber.chunkSizes[i] != want[i] {
			t.Errorf("chunk %d: expected %d samples, got %d", i, want[i], transcriber.chunkSizes[i])
		}
	}
}

func TestPipelineShortAudioNotSegmented(t *testing.T) {
	decoder := &fakeDecoder{samples: make([]float32, 8), rate: 16}
	transcriber := &fakeTranscriber{text: "whole"}
	p := NewPipeline(decoder, transcriber, 30, nil)

	text, err := p.Transcribe(context.Background(), []byte("raw"))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != "whole" {
		t.Errorf("expected %q, got %q", "whole", text)
	}
	if len(transcriber.chunkSizes) != 1 {
		t.Errorf("expected a single transcription call, got %v", transcriber.chunkSizes)
	}
}

func TestPipelineRecordsMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	decoder := &fakeDecoder{samples: []float32{0.1}, rate: 16000}
	transcriber := &fakeTranscriber{err: fmt.Errorf("%w: upstream", domain.ErrTranscription)}
	p := NewPipeline(decoder, transcriber, 0, m)

	p.Transcribe(context.Background(), []byte("raw"))

	if got := testCounterValue(t, m.TranscriptionRequests); got != 1 {
		t.Errorf("expected 1 transcription request, got %v", got)
	}
	if got := testCounterValue(t, m.TranscriptionFailures); got != 1 {
		t.Errorf("expected 1 transcription failure, got %v", got)
	}
}

func testCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
