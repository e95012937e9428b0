package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/OmkarYeole/ArtifyAI/pkg/audio"
	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
)

// Whisper transcribes audio through the OpenAI speech-to-text API.
// It is configured for a single fixed language; long recordings are
// segmented by the model itself, not by this client.
type Whisper struct {
	client   *openai.Client
	model    string
	language string
	timeout  time.Duration
}

// Verify interface compliance.
var _ Transcriber = (*Whisper)(nil)

// NewWhisper creates a Whisper transcriber.
func NewWhisper(apiKey, model, language string, timeout time.Duration) *Whisper {
	return &Whisper{
		client:   openai.NewClient(apiKey),
		model:    model,
		language: language,
		timeout:  timeout,
	}
}

// Transcribe re-encodes the samples as WAV and uploads them for
// transcription. Failures wrap domain.ErrTranscription.
func (w *Whisper) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	wav, err := audio.EncodeWAV(samples, sampleRate)
	if err != nil {
		return "", fmt.Errorf("%w: encoding upload: %v", domain.ErrTranscription, err)
	}

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(wav),
		Language: w.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTranscription, err)
	}

	return strings.TrimSpace(resp.Text), nil
}
