package model

import "errors"

// StoryTemplate is a predefined starter pattern for the create-story page.
// Templates live in memory; using one never persists anything by itself.
type StoryTemplate struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Desc    string      `json:"desc"`
	Preview string      `json:"preview"`
	Pages   []StoryPage `json:"pages,omitempty"`

	// Image is filled in at request time from image search, falling back
	// to a static placeholder.
	Image string `json:"image,omitempty"`
}

// TemplatePrefill is the payload returned by the use-template endpoint. Page
// texts and images are joined with PrefillDelimiter so the create form can
// receive them as flat pass-through parameters.
type TemplatePrefill struct {
	TemplateID   string `json:"template_id"`
	TemplateName string `json:"template_name"`
	TemplateDesc string `json:"template_desc"`
	Pages        string `json:"template_pages"`
	Images       string `json:"template_imgs"`
}

// PrefillDelimiter separates joined page texts/images in prefill params.
const PrefillDelimiter = "|~|"

// TemplatePlaceholderImage is served when no thumbnail can be fetched.
const TemplatePlaceholderImage = "/static/img/profile_1.png"

var ErrTemplateNotFound = errors.New("template not found")
