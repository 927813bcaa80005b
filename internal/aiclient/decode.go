package aiclient

import (
	"encoding/json"
	"strings"
)

// Request is one chat-completion call.
type Request struct {
	Model       string       `json:"model"`
	Messages    []Message    `json:"messages"`
	Modalities  []string     `json:"modalities,omitempty"`
	ImageConfig *ImageConfig `json:"image_config,omitempty"`
}

// Message is a single chat message in a request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ImageConfig hints the desired aspect ratio for image generation.
type ImageConfig struct {
	AspectRatio string `json:"aspect_ratio"`
}

// Response is a chat-completion-shaped reply.
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice is one completion alternative; only the first is ever used.
type Choice struct {
	Message ResponseMessage `json:"message"`
}

// ResponseMessage carries the assistant output. Some providers deliver
// generated images in a dedicated images list next to the content.
type ResponseMessage struct {
	Content Content     `json:"content"`
	Images  []ImagePart `json:"images"`
}

// Content normalizes the two wire shapes of a message body: a flat string
// or a list of typed parts. Decoding never fails; an unrecognized shape
// yields zero parts so callers see an empty result instead of an error.
type Content struct {
	Parts []ContentPart
}

// ContentPart is a single typed fragment of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Data     string    `json:"data,omitempty"`
	ImageURL *ImageRef `json:"image_url,omitempty"`
}

// ImagePart mirrors the entries of a message-level images list.
type ImagePart struct {
	Type     string    `json:"type"`
	Data     string    `json:"data,omitempty"`
	ImageURL *ImageRef `json:"image_url,omitempty"`
}

// ImageRef wraps an image URL, which may be a data URI or an http(s) URL.
type ImageRef struct {
	URL string `json:"url"`
}

// UnmarshalJSON accepts either a JSON string or an array of content parts.
func (c *Content) UnmarshalJSON(data []byte) error {
	var flat string
	if err := json.Unmarshal(data, &flat); err == nil {
		c.Parts = []ContentPart{{Type: "text", Text: flat}}
		return nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		c.Parts = parts
		return nil
	}

	// Unrecognized shape: decode to empty rather than propagating an error.
	c.Parts = nil
	return nil
}

// MarshalJSON re-encodes the normalized parts list.
func (c Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Parts)
}

// Text returns the concatenated text of the first choice: text-typed parts
// newline-joined and trimmed. Absent or non-text content yields "".
func (r *Response) Text() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}

	parts := make([]string, 0, len(r.Choices[0].Message.Content.Parts))
	for _, p := range r.Choices[0].Message.Content.Parts {
		if p.Type == "text" && p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
