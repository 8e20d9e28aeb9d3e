// normalize.go - Extracting plain text from heterogeneous model responses
package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// Texter is the capability check for responses that can produce their own
// text. Mock clients and future SDK response shapes satisfy it directly.
type Texter interface {
	Text() string
}

// NormalizeResponse converts an opaque model response into plain text.
// Fallbacks are tried in order: a text-producing capability on the
// response, the text-bearing parts of the first Gemini candidate, and
// finally a structural serialization so the caller always receives
// something.
func NormalizeResponse(resp any) string {
	if t, ok := resp.(Texter); ok {
		if s := strings.TrimSpace(t.Text()); s != "" {
			return s
		}
	}

	if r, ok := resp.(*genai.GenerateContentResponse); ok {
		if s := candidateText(r); s != "" {
			return s
		}
	}

	if b, err := json.Marshal(resp); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%+v", resp)
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(r *genai.GenerateContentResponse) string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return strings.TrimSpace(sb.String())
}
