package service

import (
	"context"
	"log"
	"strings"
	"time"

	"socialstories/internal/cache"
	"socialstories/internal/model"
)

// thumbnailTimeout bounds the per-template image lookup when listing the
// gallery. Failures fall back to the placeholder, never an error.
const thumbnailTimeout = 8 * time.Second

// TemplateService serves the fixed starter-template catalog. Templates are
// never persisted; "using" one only produces prefill parameters for the
// create form.
type TemplateService struct {
	catalog  []model.StoryTemplate
	searcher ImageSearcher
	thumbs   cache.ThumbnailCache
}

// NewTemplateService wires the catalog with an image searcher for thumbnails
// and an optional Redis-backed cache; both may be nil.
func NewTemplateService(searcher ImageSearcher, thumbs cache.ThumbnailCache) *TemplateService {
	return &TemplateService{
		catalog:  builtinTemplates(),
		searcher: searcher,
		thumbs:   thumbs,
	}
}

func builtinTemplates() []model.StoryTemplate {
	return []model.StoryTemplate{
		{
			ID:      "morning",
			Name:    "Morning Routine",
			Desc:    "A simple morning routine template for children.",
			Preview: "<ul><li>Wake up</li><li>Brush teeth</li><li>Get dressed</li><li>Eat breakfast</li><li>Go to school</li></ul>",
			Pages: []model.StoryPage{
				{Text: "Wake up"}, {Text: "Brush teeth"}, {Text: "Get dressed"},
				{Text: "Eat breakfast"}, {Text: "Go to school"},
			},
		},
		{
			ID:      "friends",
			Name:    "Making Friends",
			Desc:    "A template for helping children learn about making friends.",
			Preview: "<ul><li>Say hello</li><li>Share toys</li><li>Listen to others</li><li>Be kind</li></ul>",
			Pages: []model.StoryPage{
				{Text: "Say hello"}, {Text: "Share toys"},
				{Text: "Listen to others"}, {Text: "Be kind"},
			},
		},
		{
			ID:      "doctor",
			Name:    "Going to the Doctor",
			Desc:    "A template for preparing for a doctor's visit.",
			Preview: "<ul><li>Arrive at the clinic</li><li>Wait your turn</li><li>Talk to the doctor</li><li>Get a sticker</li></ul>",
			Pages: []model.StoryPage{
				{Text: "Arrive at the clinic"}, {Text: "Wait your turn"},
				{Text: "Talk to the doctor"}, {Text: "Get a sticker"},
			},
		},
		{
			ID:      "school",
			Name:    "School Day",
			Desc:    "A template for a typical school day.",
			Preview: "<ul><li>Go to class</li><li>Listen to the teacher</li><li>Play at recess</li><li>Eat lunch</li><li>Go home</li></ul>",
			Pages: []model.StoryPage{
				{Text: "Go to class"}, {Text: "Listen to the teacher"},
				{Text: "Play at recess"}, {Text: "Eat lunch"}, {Text: "Go home"},
			},
		},
		{
			ID:      "emotions",
			Name:    "Emotions",
			Desc:    "A template for expressing feelings.",
			Preview: "<ul><li>Sometimes I feel happy</li><li>Sometimes I feel sad</li><li>It's okay to talk about feelings</li></ul>",
			Pages: []model.StoryPage{
				{Text: "Sometimes I feel happy"}, {Text: "Sometimes I feel sad"},
				{Text: "It's okay to talk about feelings"},
			},
		},
		{
			ID:      "adventure",
			Name:    "Adventure Story",
			Desc:    "A template for an exciting adventure.",
			Preview: `<div style="padding:16px;"><h3>Adventure Awaits!</h3><p>Once upon a time...</p></div>`,
			Pages:   []model.StoryPage{{Text: "Once upon a time..."}},
		},
		{
			ID:      "friendship",
			Name:    "Friendship Story",
			Desc:    "A template about making friends.",
			Preview: `<div style="padding:16px;"><h3>Best Friends</h3><p>It all started at school...</p></div>`,
			Pages:   []model.StoryPage{{Text: "It all started at school..."}},
		},
		{
			ID:      "custom",
			Name:    "Custom Story",
			Desc:    "Start with a blank book.",
			Preview: `<div style="padding:16px;"><h3>Your Story</h3><p>Begin writing...</p></div>`,
			Pages:   []model.StoryPage{{Text: ""}},
		},
	}
}

// List returns the catalog with each entry annotated with a thumbnail URL.
// apiKey may be empty, in which case every entry gets the placeholder.
func (s *TemplateService) List(ctx context.Context, apiKey string) []model.StoryTemplate {
	templates := make([]model.StoryTemplate, len(s.catalog))
	copy(templates, s.catalog)

	for i := range templates {
		templates[i].Image = s.Thumbnail(ctx, &templates[i], apiKey)
	}
	return templates
}

// Get returns a single catalog entry by ID.
func (s *TemplateService) Get(id string) (*model.StoryTemplate, error) {
	for i := range s.catalog {
		if s.catalog[i].ID == id {
			t := s.catalog[i]
			return &t, nil
		}
	}
	return nil, model.ErrTemplateNotFound
}

// Thumbnail resolves the template's gallery image: cache first, then image
// search on name + desc, then the static placeholder. Lookup failures only
// downgrade to the placeholder.
func (s *TemplateService) Thumbnail(ctx context.Context, t *model.StoryTemplate, apiKey string) string {
	if s.thumbs != nil {
		if url, found, err := s.thumbs.Get(ctx, t.ID); err == nil && found {
			return url
		}
	}

	if s.searcher == nil || apiKey == "" {
		return model.TemplatePlaceholderImage
	}

	searchCtx, cancel := context.WithTimeout(ctx, thumbnailTimeout)
	defer cancel()

	url, err := s.searcher.First(searchCtx, t.Name+" "+t.Desc, apiKey)
	if err != nil || url == "" {
		if err != nil {
			log.Printf("[Template] thumbnail lookup failed: id=%s err=%v", t.ID, err)
		}
		return model.TemplatePlaceholderImage
	}

	if s.thumbs != nil {
		if err := s.thumbs.Set(ctx, t.ID, url); err != nil {
			log.Printf("[Template] thumbnail cache set failed: id=%s err=%v", t.ID, err)
		}
	}
	return url
}

// PrefillParams builds the use-template payload: page texts and images joined
// with the prefill delimiter so the create form can receive them as flat
// pass-through parameters.
func (s *TemplateService) PrefillParams(id string) (*model.TemplatePrefill, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(t.Pages))
	imgs := make([]string, 0, len(t.Pages))
	for _, p := range t.Pages {
		texts = append(texts, p.Text)
		imgs = append(imgs, p.Image)
	}
	if len(texts) == 0 {
		texts = []string{""}
		imgs = []string{""}
	}

	return &model.TemplatePrefill{
		TemplateID:   t.ID,
		TemplateName: t.Name,
		TemplateDesc: t.Desc,
		Pages:        strings.Join(texts, model.PrefillDelimiter),
		Images:       strings.Join(imgs, model.PrefillDelimiter),
	}, nil
}
