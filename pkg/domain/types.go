package domain

// NewSession is the sentinel identifier meaning "no backing record yet".
// It is always offered by the selector and never appears on disk.
const NewSession = "new_session"

// DefaultImagePrompt is used when an image is submitted without a prompt.
const DefaultImagePrompt = "Describe this image in detail please."

// Turn is one message within a transcript. Immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered sequence of turns of one session.
// Insertion order is chronological order.
type Transcript []Turn

// Clone returns an independent copy of the transcript.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// InputKind tags the variant of a PendingInput.
type InputKind string

const (
	// InputText is plain typed text.
	InputText InputKind = "text"
	// InputTranscribedAudio is text produced by the audio-ingestion pipeline.
	InputTranscribedAudio InputKind = "transcribed_audio"
	// InputImage is an image plus an optional prompt.
	InputImage InputKind = "image"
)

// PendingInput is the single unit of new input awaiting aggregation into
// a turn pair. It is consumed at most once per interaction cycle.
type PendingInput struct {
	Kind InputKind

	// Text holds the content for InputText and InputTranscribedAudio.
	Text string

	// Image and Prompt are set for InputImage. An empty Prompt falls back
	// to DefaultImagePrompt.
	Image  []byte
	Prompt string
}
