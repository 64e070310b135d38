package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialstories/internal/model"
)

type fakeSearcher struct {
	firstFn func(ctx context.Context, query, apiKey string) (string, error)
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, query, apiKey string) ([]string, error) {
	url, err := f.First(ctx, query, apiKey)
	if err != nil || url == "" {
		return nil, err
	}
	return []string{url}, nil
}

func (f *fakeSearcher) First(ctx context.Context, query, apiKey string) (string, error) {
	f.calls++
	if f.firstFn != nil {
		return f.firstFn(ctx, query, apiKey)
	}
	return "", nil
}

type fakeThumbCache struct {
	store map[string]string
}

func newFakeThumbCache() *fakeThumbCache {
	return &fakeThumbCache{store: map[string]string{}}
}

func (c *fakeThumbCache) Get(ctx context.Context, templateID string) (string, bool, error) {
	url, ok := c.store[templateID]
	return url, ok, nil
}

func (c *fakeThumbCache) Set(ctx context.Context, templateID, url string) error {
	c.store[templateID] = url
	return nil
}

func TestTemplateService_Catalog(t *testing.T) {
	svc := NewTemplateService(nil, nil)

	templates := svc.List(context.Background(), "")
	require.Len(t, templates, 8)

	// Every entry falls back to the placeholder without a searcher
	for _, tmpl := range templates {
		assert.Equal(t, model.TemplatePlaceholderImage, tmpl.Image, "template %s", tmpl.ID)
	}

	got, err := svc.Get("morning")
	require.NoError(t, err)
	assert.Equal(t, "Morning Routine", got.Name)

	_, err = svc.Get("no-such-template")
	assert.ErrorIs(t, err, model.ErrTemplateNotFound)
}

func TestTemplateService_Thumbnail(t *testing.T) {
	t.Run("search result is used and cached", func(t *testing.T) {
		searcher := &fakeSearcher{
			firstFn: func(ctx context.Context, query, apiKey string) (string, error) {
				return "https://img.example/morning.png", nil
			},
		}
		cache := newFakeThumbCache()
		svc := NewTemplateService(searcher, cache)

		tmpl, err := svc.Get("morning")
		require.NoError(t, err)

		url := svc.Thumbnail(context.Background(), tmpl, "key")
		assert.Equal(t, "https://img.example/morning.png", url)
		assert.Equal(t, "https://img.example/morning.png", cache.store["morning"])

		// Second lookup hits the cache, not the searcher
		_ = svc.Thumbnail(context.Background(), tmpl, "key")
		assert.Equal(t, 1, searcher.calls)
	})

	t.Run("search failure falls back to placeholder", func(t *testing.T) {
		searcher := &fakeSearcher{
			firstFn: func(ctx context.Context, query, apiKey string) (string, error) {
				return "", errors.New("upstream down")
			},
		}
		svc := NewTemplateService(searcher, nil)

		tmpl, err := svc.Get("doctor")
		require.NoError(t, err)

		url := svc.Thumbnail(context.Background(), tmpl, "key")
		assert.Equal(t, model.TemplatePlaceholderImage, url)
	})

	t.Run("missing api key skips the searcher", func(t *testing.T) {
		searcher := &fakeSearcher{}
		svc := NewTemplateService(searcher, nil)

		tmpl, err := svc.Get("school")
		require.NoError(t, err)

		url := svc.Thumbnail(context.Background(), tmpl, "")
		assert.Equal(t, model.TemplatePlaceholderImage, url)
		assert.Zero(t, searcher.calls)
	})
}

func TestTemplateService_PrefillParams(t *testing.T) {
	svc := NewTemplateService(nil, nil)

	prefill, err := svc.PrefillParams("morning")
	require.NoError(t, err)

	assert.Equal(t, "morning", prefill.TemplateID)
	assert.Equal(t, "Morning Routine", prefill.TemplateName)

	texts := strings.Split(prefill.Pages, model.PrefillDelimiter)
	assert.Equal(t, []string{"Wake up", "Brush teeth", "Get dressed", "Eat breakfast", "Go to school"}, texts)

	// Image list has one slot per page, even when empty
	imgs := strings.Split(prefill.Images, model.PrefillDelimiter)
	assert.Len(t, imgs, len(texts))

	_, err = svc.PrefillParams("missing")
	assert.ErrorIs(t, err, model.ErrTemplateNotFound)
}
