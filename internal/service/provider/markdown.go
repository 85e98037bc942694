package provider

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"

	"nitro/content-render/internal/service/embed"
	"nitro/content-render/internal/service/render"
)

// Markdown provider is responsible for loading the legacy documents, a markdown body with the title, slug and embeds
// at the front matter.
type Markdown struct {
	Helpers FileHelpers
}

type markdownFrontMatter struct {
	Title  string             `yaml:"title"`
	Slug   string             `yaml:"slug"`
	Embeds []embed.Descriptor `yaml:"embeds"`
}

// Init internal state.
func (m *Markdown) Init() error {
	if m.Helpers == nil {
		m.Helpers = fileHelpersC{}
	}
	return nil
}

// Authority checks if the markdown provider is responsible to load the file.
func (Markdown) Authority(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// Load the document. The title falls back to the file name.
func (m Markdown) Load(ctx context.Context, path string) (render.Document, error) {
	if err := ctx.Err(); err != nil {
		return render.Document{}, err
	}

	payload, err := m.Helpers.readFile(path)
	if err != nil {
		return render.Document{}, fmt.Errorf("fail to read the file '%s': %w", path, err)
	}

	var meta markdownFrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(payload), &meta)
	if err != nil {
		return render.Document{}, fmt.Errorf("fail to parse the front matter of '%s': %w", path, err)
	}

	doc := render.Document{
		Slug:                  meta.Slug,
		Title:                 meta.Title,
		LegacyMarkdownContent: string(body),
		LegacyEmbeds:          meta.Embeds,
	}
	if doc.Title == "" {
		doc.Title = baseName(path)
	}
	return doc, nil
}
