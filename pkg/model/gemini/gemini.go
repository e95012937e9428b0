package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
	"github.com/OmkarYeole/ArtifyAI/pkg/model"
)

// Provider implements model.Provider using the Google Gen AI SDK.
type Provider struct {
	client      *genai.Client
	chatModel   string
	visionModel string
}

// Verify interface compliance.
var _ model.Provider = (*Provider)(nil)

// New creates a new Gemini provider.
func New(ctx context.Context, apiKey, chatModel, visionModel string) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Provider{
		client:      client,
		chatModel:   chatModel,
		visionModel: visionModel,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "gemini" }

// Generate sends the conversation history plus the new prompt and
// returns the full text response.
func (p *Provider) Generate(ctx context.Context, history domain.Transcript, prompt string) (string, error) {
	slog.Debug("Gemini.Generate", "model", p.chatModel, "historyLen", len(history))

	contents := historyToContents(history)
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	})

	resp, err := p.client.Models.GenerateContent(ctx, p.chatModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModel, err)
	}

	text := collectText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrModel)
	}
	return text, nil
}

// DescribeImage sends the image bytes and the instruction to the vision
// model and returns the full text response.
func (p *Provider) DescribeImage(ctx context.Context, image []byte, prompt string) (string, error) {
	slog.Debug("Gemini.DescribeImage", "model", p.visionModel, "imageBytes", len(image))

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{
				MIMEType: http.DetectContentType(image),
				Data:     image,
			}},
			{Text: prompt},
		},
	}}

	resp, err := p.client.Models.GenerateContent(ctx, p.visionModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModel, err)
	}

	text := collectText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrModel)
	}
	return text, nil
}

// List returns available Gemini models that support generateContent.
func (p *Provider) List(ctx context.Context) ([]string, error) {
	var models []string
	for m, err := range p.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		for _, action := range m.SupportedActions {
			if action == "generateContent" {
				models = append(models, m.Name)
				break
			}
		}
	}
	return models, nil
}

// historyToContents converts transcript turns to genai contents.
func historyToContents(history domain.Transcript) []*genai.Content {
	var contents []*genai.Content
	for _, turn := range history {
		role := "user"
		if turn.Role == domain.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Content}},
		})
	}
	return contents
}

// collectText concatenates the text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		break
	}
	return strings.TrimSpace(b.String())
}
