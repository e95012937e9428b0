// Package chat implements the session and message lifecycle: resolving
// the active session, merging new turns into its transcript exactly
// once per interaction cycle, and triggering persistence.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
	"github.com/OmkarYeole/ArtifyAI/pkg/metrics"
	"github.com/OmkarYeole/ArtifyAI/pkg/model"
	"github.com/OmkarYeole/ArtifyAI/pkg/store"
)

// Manager is the turn aggregator. It exclusively owns the in-memory
// transcript of the active session; the rendering layer only ever sees
// copies. Cycles are serialized: one pending input is consumed per
// cycle and never twice.
type Manager struct {
	store    store.Store
	provider model.Provider
	metrics  *metrics.Metrics
	now      func() time.Time

	mu         sync.Mutex
	active     string
	pendingNew string
	transcript domain.Transcript

	subMu sync.RWMutex
	subs  map[chan struct{}]struct{}
}

// New creates a Manager starting on the new-session sentinel.
// metrics may be nil.
func New(s store.Store, provider model.Provider, m *metrics.Metrics) *Manager {
	return &Manager{
		store:    s,
		provider: provider,
		metrics:  m,
		now:      time.Now,
		active:   domain.NewSession,
		subs:     make(map[chan struct{}]struct{}),
	}
}

// ActiveSession returns the identifier of the active session.
func (m *Manager) ActiveSession() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Transcript returns a copy of the active transcript for rendering.
func (m *Manager) Transcript() domain.Transcript {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcript.Clone()
}

// Sessions returns the selectable identifiers, sentinel first.
func (m *Manager) Sessions(ctx context.Context) []string {
	return append([]string{domain.NewSession}, m.store.List(ctx)...)
}

// SelectSession resolves the active session for this cycle and loads
// its transcript. A stale reference falls back to the sentinel instead
// of failing the interaction. The one-shot promotion of a just-created
// session clears the pending identifier.
func (m *Manager) SelectSession(ctx context.Context, requested string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active, err := SelectActive(m.store.List(ctx), requested, m.pendingNew)
	if errors.Is(err, domain.ErrStaleSession) {
		slog.Warn("Stale session reference, falling back", "requested", requested)
		active = domain.NewSession
	} else if err != nil {
		return "", err
	}

	var transcript domain.Transcript
	if active != domain.NewSession {
		transcript, err = m.store.Load(ctx, active)
		if err != nil {
			// Leave prior state untouched; the session stays usable.
			return "", err
		}
	}

	// Any completed select cycle observes the just-created session, so
	// the pending identifier never survives past this refresh.
	m.pendingNew = ""
	m.active = active
	m.transcript = transcript
	m.notify()
	return active, nil
}

// Submit consumes one pending input: it invokes the external model,
// appends the resulting (user, assistant) turn pair, and persists the
// transcript. On model failure nothing is appended and the input is
// discarded; the error is surfaced for the rendering layer to report.
func (m *Manager) Submit(ctx context.Context, in domain.PendingInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	userText, reply, err := m.dispatch(ctx, in)
	if err != nil {
		// Aborted transition: the cycle still ends with a save of the
		// unchanged transcript.
		if saveErr := m.save(ctx); saveErr != nil {
			slog.Warn("Save after aborted cycle failed", "error", saveErr)
		}
		return err
	}

	m.transcript = append(m.transcript,
		domain.Turn{Role: domain.RoleUser, Content: userText},
		domain.Turn{Role: domain.RoleAssistant, Content: reply},
	)

	if err := m.save(ctx); err != nil {
		return err
	}
	m.notify()
	return nil
}

// dispatch routes a pending input to the matching model invocation and
// returns the user-visible text plus the assistant reply.
func (m *Manager) dispatch(ctx context.Context, in domain.PendingInput) (string, string, error) {
	switch in.Kind {
	case domain.InputText, domain.InputTranscribedAudio:
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return "", "", fmt.Errorf("%w: empty %s input", domain.ErrInvalidInput, in.Kind)
		}
		reply, err := m.timedGenerate(ctx, text)
		return text, reply, err

	case domain.InputImage:
		if len(in.Image) == 0 {
			return "", "", fmt.Errorf("%w: empty image", domain.ErrInvalidInput)
		}
		prompt := in.Prompt
		if prompt == "" {
			prompt = domain.DefaultImagePrompt
		}
		start := m.now()
		reply, err := m.provider.DescribeImage(ctx, in.Image, prompt)
		m.observeModelCall(start, err)
		return prompt, reply, err

	default:
		return "", "", fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, in.Kind)
	}
}

func (m *Manager) timedGenerate(ctx context.Context, prompt string) (string, error) {
	start := m.now()
	reply, err := m.provider.Generate(ctx, m.transcript, prompt)
	m.observeModelCall(start, err)
	return reply, err
}

func (m *Manager) observeModelCall(start time.Time, err error) {
	if m.metrics == nil {
		return
	}
	m.metrics.ModelRequests.Inc()
	m.metrics.ModelDuration.Observe(m.now().Sub(start).Seconds())
	if err != nil {
		m.metrics.ModelFailures.Inc()
	}
}

// save persists a non-empty transcript. A brand-new session gets a
// timestamp identifier on its first save; the identifier is held in
// pendingNew until a select cycle observes it.
func (m *Manager) save(ctx context.Context) error {
	if len(m.transcript) == 0 {
		return nil
	}

	id := m.active
	if id == domain.NewSession {
		if m.pendingNew != "" {
			// First save already happened this session; keep writing to it.
			id = m.pendingNew
		} else {
			id = store.TimestampID(m.now())
		}
	}

	err := m.store.Save(ctx, id, m.transcript)
	if m.metrics != nil {
		m.metrics.SessionSaves.Inc()
		if err != nil {
			m.metrics.SaveFailures.Inc()
		}
	}
	if err != nil {
		return err
	}

	if m.active == domain.NewSession {
		m.pendingNew = id
	}
	return nil
}

// DeleteSession removes a stored session. Deleting the active session
// resets the manager to the sentinel.
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	if id == m.active {
		m.active = domain.NewSession
		m.transcript = nil
	}
	if id == m.pendingNew {
		m.pendingNew = ""
	}
	m.notify()
	return nil
}

// Subscribe returns a channel that receives a signal whenever the
// active session or its transcript changes, plus a cancel func that
// removes the subscription. Used by the rendering layer to refresh.
func (m *Manager) Subscribe() (<-chan struct{}, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	ch := make(chan struct{}, 1)
	m.subs[ch] = struct{}{}
	return ch, func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, ch)
	}
}

func (m *Manager) notify() {
	m.subMu.RLock()
	defer m.subMu.RUnlock()
	for sub := range m.subs {
		// Non-blocking send
		select {
		case sub <- struct{}{}:
		default:
		}
	}
}
