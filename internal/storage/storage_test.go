package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePutText(t *testing.T) {
	putter := &fakePutter{}
	store := NewS3StoreWithClient(putter, "darija-news", "agent/", "eu-west-3")

	key, err := store.PutText(context.Background(), "/2026-08-27/slug/blog_en.md", "# Post", "text/markdown; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "agent/2026-08-27/slug/blog_en.md", key)

	require.Len(t, putter.inputs, 1)
	in := putter.inputs[0]
	assert.Equal(t, "darija-news", *in.Bucket)
	assert.Equal(t, "agent/2026-08-27/slug/blog_en.md", *in.Key)
	assert.Equal(t, "text/markdown; charset=utf-8", *in.ContentType)

	body, err := io.ReadAll(in.Body)
	require.NoError(t, err)
	assert.Equal(t, "# Post", string(body))
}

func TestS3StoreNoPrefix(t *testing.T) {
	store := NewS3StoreWithClient(&fakePutter{}, "b", "", "")
	key, err := store.PutBytes(context.Background(), "a/b.png", []byte{1}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "a/b.png", key)
}

func TestS3StorePutError(t *testing.T) {
	putter := &fakePutter{err: errors.New("denied")}
	store := NewS3StoreWithClient(putter, "b", "p", "")

	_, err := store.PutBytes(context.Background(), "k", []byte{1}, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p/k")
}

func TestS3StorePublicURL(t *testing.T) {
	withRegion := NewS3StoreWithClient(&fakePutter{}, "darija-news", "", "eu-west-3")
	assert.Equal(t,
		"https://darija-news.s3.eu-west-3.amazonaws.com/2026-08-27/slug/meta.json",
		withRegion.PublicURL("2026-08-27/slug/meta.json"))

	withoutRegion := NewS3StoreWithClient(&fakePutter{}, "darija-news", "", "")
	assert.Equal(t,
		"https://darija-news.s3.amazonaws.com/k",
		withoutRegion.PublicURL("k"))
}

func TestStaging(t *testing.T) {
	staging := NewStaging(t.TempDir())

	require.NoError(t, staging.WriteText("2026-08-27/slug/blog_en.md", "# Post"))
	require.NoError(t, staging.WriteBytes("2026-08-27/slug/page_1.png", []byte{0x89}))

	assert.True(t, staging.Exists("2026-08-27/slug/blog_en.md"))
	assert.False(t, staging.Exists("2026-08-27/slug/missing.md"))

	content, err := staging.ReadText("2026-08-27/slug/blog_en.md")
	require.NoError(t, err)
	assert.Equal(t, "# Post", content)

	_, err = staging.ReadText("nope")
	require.Error(t, err)
}
