// Package render turns a document into sanitized HTML. The block sequence takes priority, the legacy markdown and
// embeds are only rendered when the document has no blocks.
package render

import (
	"html/template"
	"strings"

	"nitro/content-render/internal/service/block"
	"nitro/content-render/internal/service/embed"
	"nitro/content-render/internal/service/slug"
	"nitro/content-render/internal/service/toc"
)

// Document is a page of content.
type Document struct {
	Slug                  string             `json:"slug" yaml:"slug"`
	Title                 string             `json:"title" yaml:"title"`
	Blocks                block.Sequence     `json:"blocks,omitempty" yaml:"-"`
	LegacyMarkdownContent string             `json:"content,omitempty" yaml:"-"`
	LegacyEmbeds          []embed.Descriptor `json:"embeds,omitempty" yaml:"embeds"`
}

// ID returns the slug of the document, derived from the title when absent.
func (d Document) ID() string {
	if id := strings.TrimSpace(d.Slug); id != "" {
		return id
	}
	return slug.Make(d.Title)
}

// Output of a render pass. Fallbacks lists the embeds that could not be rendered and Warnings the problems found on the
// block sequence, neither of them stops the render.
type Output struct {
	HTML      template.HTML
	Outline   template.HTML
	Headings  []toc.Heading
	Fallbacks []embed.Fallback
	Warnings  []string
}
