// parts.go - Content part types for the multimodal model request
package chat

// PartType discriminates the variants of a ContentPart.
type PartType string

const (
	// PartText is plain prompt or file text.
	PartText PartType = "text"
	// PartInlineData is raw binary content (images) sent inline.
	PartInlineData PartType = "inline_data"
	// PartPlaceholder stands in for a document format the server accepts
	// but cannot embed natively.
	PartPlaceholder PartType = "placeholder"
)

// ContentPart is one typed unit of the multimodal request sent to the model.
type ContentPart struct {
	Type      PartType
	Text      string // PartText, PartPlaceholder
	Data      []byte // PartInlineData
	MediaType string // PartInlineData
}

// TextPart builds a plain text part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// InlineDataPart builds an inline binary part.
func InlineDataPart(data []byte, mediaType string) ContentPart {
	return ContentPart{Type: PartInlineData, Data: data, MediaType: mediaType}
}

// PlaceholderPart builds a text part substituting for an unsupported
// document format.
func PlaceholderPart(text string) ContentPart {
	return ContentPart{Type: PartPlaceholder, Text: text}
}

// Result is the outcome of a successfully processed chat request.
type Result struct {
	Output         string `json:"output"`
	FilesProcessed int    `json:"filesProcessed"`
}
