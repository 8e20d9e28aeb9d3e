// gemini.go - Remote model invocation via the Gemini API
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "gemini-2.0-flash"

// ModelClient performs a single synchronous call to the remote generative
// model. Implementations return an opaque response; NormalizeResponse
// turns it into text.
type ModelClient interface {
	Invoke(ctx context.Context, parts []ContentPart) (any, error)
	ModelName() string
}

// GeminiClient implements ModelClient against Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed model client. The API key is
// taken from the configuration built at startup; there is no ambient
// credential lookup here.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Invoke sends the assembled parts as a single user turn. No retries and
// no internal deadline; the caller's context is the only cancellation
// mechanism.
func (g *GeminiClient) Invoke(ctx context.Context, parts []ContentPart) (any, error) {
	resp, err := g.client.GenerativeModel(g.model).GenerateContent(ctx, toGeminiParts(parts)...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	return resp, nil
}

// ModelName returns the configured model identifier.
func (g *GeminiClient) ModelName() string {
	return g.model
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// toGeminiParts converts the assembled sequence to the SDK's part types,
// preserving order. Placeholder parts travel as plain text.
func toGeminiParts(parts []ContentPart) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		switch p.Type {
		case PartInlineData:
			out = append(out, genai.Blob{MIMEType: p.MediaType, Data: p.Data})
		default:
			out = append(out, genai.Text(p.Text))
		}
	}
	return out
}
