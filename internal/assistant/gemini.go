package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini responder
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiResponder sends one GenerateContent request per query
type GeminiResponder struct {
	generate generateFunc
	model    string
	timeout  time.Duration
}

// NewGeminiResponder creates a responder backed by the Gemini API
func NewGeminiResponder(ctx context.Context, cfg GeminiConfig) (*GeminiResponder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGeminiResponder(client.Models.GenerateContent, cfg), nil
}

func newGeminiResponder(generate generateFunc, cfg GeminiConfig) *GeminiResponder {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiResponder{
		generate: generate,
		model:    model,
		timeout:  cfg.Timeout,
	}
}

// Model returns the configured model name
func (g *GeminiResponder) Model() string {
	return g.model
}

// Respond implements Responder
func (g *GeminiResponder) Respond(ctx context.Context, query, summary string, lang Language) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.generate(ctx, g.model, genai.Text(Prompt(query, summary, lang)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction(lang), genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
