package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darijapress/darijapress/internal/logger"
)

func TestResolveArticleURL(t *testing.T) {
	c := NewClient(Config{Host: "news.example.test"}, logger.NewNopLogger())

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{
			name: "absolute url on host",
			id:   "https://news.example.test/2026/08/a.html",
			want: "https://news.example.test/2026/08/a.html",
		},
		{
			name: "absolute url on subdomain",
			id:   "https://feeds.news.example.test/a.html",
			want: "https://feeds.news.example.test/a.html",
		},
		{
			name:    "absolute url on foreign host",
			id:      "https://evil.example.com/a.html",
			wantErr: true,
		},
		{
			name:    "suffix-spoofed host",
			id:      "https://notnews.example.test.evil.com/a.html",
			wantErr: true,
		},
		{
			name: "relative path",
			id:   "2026/08/a.html",
			want: "https://news.example.test/2026/08/a.html",
		},
		{
			name: "rooted path",
			id:   "/2026/08/a.html",
			want: "https://news.example.test/2026/08/a.html",
		},
		{
			name:    "empty id",
			id:      "   ",
			wantErr: true,
		},
		{
			name:    "non-http scheme",
			id:      "ftp://news.example.test/a.html",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ResolveArticleURL(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				var invalid *InvalidIDError
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
