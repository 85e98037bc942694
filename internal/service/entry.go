package service

import (
	"nitro/content-render/internal/service/embed"
	"nitro/content-render/internal/service/toc"
)

// Entry represents a content file and the outcome of its render.
type Entry struct {
	Path           string
	Slug           string
	Title          string
	Page           []byte
	Headings       []toc.Heading
	Fallbacks      []embed.Fallback
	MissingAnchors []toc.Heading
	Warnings       []string
}

// HasFindings reports if the render produced anything that should be checked by the author.
func (e Entry) HasFindings() bool {
	return len(e.Fallbacks) > 0 || len(e.MissingAnchors) > 0 || len(e.Warnings) > 0
}
