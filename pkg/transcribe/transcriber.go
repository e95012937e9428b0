package transcribe

import (
	"context"
	"strings"
	"time"

	"github.com/OmkarYeole/ArtifyAI/pkg/metrics"
)

// Transcriber converts decoded audio samples to text.
type Transcriber interface {
	// Transcribe converts mono normalized float32 samples to text.
	// Failures wrap domain.ErrTranscription and are not retried.
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
}

// Decoder converts an encoded audio blob into decoded samples.
// *audio.Decoder satisfies this.
type Decoder interface {
	Decode(ctx context.Context, raw []byte) ([]float32, int, error)
}

// Pipeline is the audio-ingestion path: raw bytes -> decoded waveform ->
// transcribed text. Long recordings are segmented into bounded chunks
// before transcription. It owns no state between calls.
type Pipeline struct {
	decoder      Decoder
	transcriber  Transcriber
	chunkSeconds int
	metrics      *metrics.Metrics
}

// NewPipeline creates a Pipeline. chunkSeconds bounds the duration of a
// single transcription request; zero disables segmentation. metrics may
// be nil.
func NewPipeline(decoder Decoder, transcriber Transcriber, chunkSeconds int, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		decoder:      decoder,
		transcriber:  transcriber,
		chunkSeconds: chunkSeconds,
		metrics:      m,
	}
}

// Transcribe runs the full ingestion path. Decode and transcription
// failures propagate unchanged; a failing chunk aborts the whole
// request.
func (p *Pipeline) Transcribe(ctx context.Context, raw []byte) (string, error) {
	samples, rate, err := p.decoder.Decode(ctx, raw)
	if err != nil {
		if p.metrics != nil {
			p.metrics.DecodeFailures.Inc()
		}
		return "", err
	}

	var parts []string
	for _, chunk := range p.split(samples, rate) {
		text, err := p.transcribeChunk(ctx, chunk, rate)
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func (p *Pipeline) transcribeChunk(ctx context.Context, samples []float32, rate int) (string, error) {
	start := time.Now()
	text, err := p.transcriber.Transcribe(ctx, samples, rate)
	if p.metrics != nil {
		p.metrics.TranscriptionRequests.Inc()
		p.metrics.TranscriptionDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			p.metrics.TranscriptionFailures.Inc()
		}
	}
	return text, err
}

// split cuts the waveform into chunks of at most chunkSeconds each.
func (p *Pipeline) split(samples []float32, rate int) [][]float32 {
	max := p.chunkSeconds * rate
	if max <= 0 || len(samples) <= max {
		return [][]float32{samples}
	}
	var chunks [][]float32
	for len(samples) > max {
		chunks = append(chunks, samples[:max])
		samples = samples[max:]
	}
	if len(samples) > 0 {
		chunks = append(chunks, samples)
	}
	return chunks
}
