package fetcher

import (
	"fmt"
	"net/url"
	"strings"
)

// InvalidIDError marks article identifiers rejected before any fetch.
type InvalidIDError struct {
	Reason string
}

func (e *InvalidIDError) Error() string {
	return e.Reason
}

// ResolveArticleURL turns a client-supplied article id into a fetchable URL.
// Absolute URLs must point at the configured host or a subdomain of it;
// anything else is joined onto the host as a path. The restriction keeps the
// content endpoint from being used as an open proxy.
func (c *Client) ResolveArticleURL(id string) (string, error) {
	raw := strings.TrimSpace(id)
	if raw == "" {
		return "", &InvalidIDError{Reason: "missing id"}
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", &InvalidIDError{Reason: "invalid id"}
		}
		host := strings.ToLower(parsed.Hostname())
		if host == c.host || strings.HasSuffix(host, "."+c.host) {
			return raw, nil
		}
		return "", &InvalidIDError{Reason: fmt.Sprintf("only %s URLs are allowed", c.host)}
	}

	if strings.Contains(raw, "://") {
		return "", &InvalidIDError{Reason: "invalid id"}
	}

	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return "https://" + c.host + raw, nil
}
