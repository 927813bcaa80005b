package aiclient

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/darijapress/darijapress/internal/logger"
)

// InlineImage returns image bytes embedded directly in the response: a
// base64 blob in the images list or a content part, or a data URI in an
// image reference. Returns nil when no inline payload is present or it
// fails to decode.
func (r *Response) InlineImage() []byte {
	if r == nil || len(r.Choices) == 0 {
		return nil
	}
	msg := &r.Choices[0].Message

	for i := range msg.Images {
		p := &msg.Images[i]
		if p.ImageURL != nil && strings.HasPrefix(p.ImageURL.URL, "data:") {
			if b := decodeDataURI(p.ImageURL.URL); b != nil {
				return b
			}
		}
		if p.Type == "image" && p.Data != "" {
			if b, err := base64.StdEncoding.DecodeString(p.Data); err == nil {
				return b
			}
			return nil
		}
	}

	for i := range msg.Content.Parts {
		p := &msg.Content.Parts[i]
		if p.Type == "image_url" && p.ImageURL != nil && strings.HasPrefix(p.ImageURL.URL, "data:") {
			if b := decodeDataURI(p.ImageURL.URL); b != nil {
				return b
			}
		}
		if p.Type == "image" && p.Data != "" {
			if b, err := base64.StdEncoding.DecodeString(p.Data); err == nil {
				return b
			}
			return nil
		}
	}

	return nil
}

// RemoteImageURL returns the first plain http(s) image URL in the response,
// or "" when none exists.
func (r *Response) RemoteImageURL() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	msg := &r.Choices[0].Message

	for i := range msg.Images {
		if u := httpURL(msg.Images[i].ImageURL); u != "" {
			return u
		}
	}
	for i := range msg.Content.Parts {
		p := &msg.Content.Parts[i]
		if p.Type != "image_url" {
			continue
		}
		if u := httpURL(p.ImageURL); u != "" {
			return u
		}
	}

	return ""
}

// ImageBytes extracts the generated image from a response. Inline payloads
// win; otherwise a plain URL is downloaded with a short timeout. Download
// failures degrade to nil since illustration is often optional for the
// caller.
func (c *Client) ImageBytes(ctx context.Context, resp *Response) []byte {
	if b := resp.InlineImage(); b != nil {
		return b
	}

	u := resp.RemoteImageURL()
	if u == "" {
		return nil
	}
	return c.downloadImage(ctx, u)
}

func (c *Client) downloadImage(ctx context.Context, url string) []byte {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	resp, err := c.imageClient.Do(req)
	if err != nil {
		c.logger.Warn("image download failed", logger.String("url", url), logger.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("image download failed",
			logger.String("url", url),
			logger.Int("status", resp.StatusCode),
		)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	return body
}

// decodeDataURI decodes a base64 data URI; nil on any malformation.
func decodeDataURI(uri string) []byte {
	header, b64, found := strings.Cut(uri, ",")
	if !found || !strings.Contains(header, ";base64") {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil
	}
	return b
}

func httpURL(ref *ImageRef) string {
	if ref == nil {
		return ""
	}
	if strings.HasPrefix(ref.URL, "https://") || strings.HasPrefix(ref.URL, "http://") {
		return ref.URL
	}
	return ""
}
