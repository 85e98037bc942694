package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"nitro/content-render/internal/service/block"
	"nitro/content-render/internal/service/directive"
	"nitro/content-render/internal/service/embed"
	"nitro/content-render/internal/service/parser"
	"nitro/content-render/internal/service/slug"
	"nitro/content-render/internal/service/toc"
)

var templates = template.Must(template.New("render").Parse(`
{{- define "section" -}}
<section class="block block-{{ .Type }}" id="block-{{ .Anchor }}" data-block-id="{{ .ID }}">{{ .Body }}</section>
{{- end -}}

{{- define "callout" -}}
<aside class="callout callout-{{ .Variant }}" role="note"><div class="callout-title">{{ .Title }}</div>
{{- if .Body }}<div class="callout-body">{{ .Body }}</div>{{ end }}</aside>
{{- end -}}

{{- define "attachments" -}}
<div class="attachments">{{ range . }}{{ . }}{{ end }}</div>
{{- end -}}

{{- define "divider" }}<hr class="divider">{{ end -}}

{{- define "unknown" -}}
<div class="block-fallback" role="note"><p class="block-fallback-message">Blocks of type {{ printf "%q" . }} are not supported.</p></div>
{{- end -}}

{{- define "legacy" -}}
<div class="legacy-content">{{ .Content }}</div>
{{- if .Embeds }}<div class="legacy-embeds">{{ range .Embeds }}{{ . }}{{ end }}</div>{{ end }}
{{- end -}}
`))

type handler func(p *pass, b block.Block) (template.HTML, error)

// Renderer renders documents. Every render is independent, a Renderer can be shared once initialized.
type Renderer struct {
	Markdown parser.Markdown
	Resolver embed.Resolver
	Logger   *zerolog.Logger

	handlers map[block.Type]handler
}

// Init the internal state.
func (r *Renderer) Init() error {
	if r.Logger == nil {
		logger := zerolog.Nop()
		r.Logger = &logger
	}
	if r.Resolver.Logger == nil {
		r.Resolver.Logger = r.Logger
	}
	if err := r.Resolver.Init(); err != nil {
		return fmt.Errorf("fail to initialize the embed resolver: %w", err)
	}
	r.Markdown.Init()

	r.handlers = map[block.Type]handler{
		block.TypeMarkdown:    renderMarkdown,
		block.TypeEmbed:       renderEmbed,
		block.TypeAttachments: renderAttachments,
		block.TypeCallout:     renderCallout,
		block.TypeDivider:     renderDivider,
		block.TypeGallery:     renderGallery,
	}
	for _, t := range block.Types() {
		if _, ok := r.handlers[t]; !ok {
			return fmt.Errorf("missing handler for the block type '%s'", t)
		}
	}
	return nil
}

// Render the document.
func (r Renderer) Render(doc Document) (Output, error) {
	if r.handlers == nil {
		return Output{}, errors.New("renderer not initialized")
	}

	var (
		p        = pass{renderer: r}
		output   Output
		payload  template.HTML
		err      error
		logger   = r.Logger.With().Str("document", doc.ID()).Logger()
		markdown string
	)

	if len(doc.Blocks) > 0 {
		output.Warnings = warnings(block.Validate(doc.Blocks))
		blocks := block.Normalize(doc.Blocks)
		payload, err = p.blocks(blocks)
		markdown = markdownContent(blocks)
	} else {
		payload, err = p.legacy(doc.LegacyMarkdownContent, doc.LegacyEmbeds)
		markdown = doc.LegacyMarkdownContent
	}
	if err != nil {
		return Output{}, err
	}

	output.HTML = payload
	output.Fallbacks = p.fallbacks
	output.Headings = toc.Extract(markdown)
	if output.Outline, err = toc.Nav(output.Headings); err != nil {
		return Output{}, err
	}

	for _, warning := range output.Warnings {
		logger.Warn().Msg(warning)
	}
	logger.Debug().
		Int("blocks", len(doc.Blocks)).
		Int("headings", len(output.Headings)).
		Int("fallbacks", len(output.Fallbacks)).
		Msg("document rendered")
	return output, nil
}

// pass holds the state of a single render.
type pass struct {
	renderer  Renderer
	fallbacks []embed.Fallback
}

func (p *pass) blocks(blocks []block.Block) (template.HTML, error) {
	var buf strings.Builder
	for _, b := range blocks {
		body, err := p.block(b)
		if err != nil {
			return "", fmt.Errorf("fail to render the block '%s': %w", b.BlockID(), err)
		}
		section, err := execute("section", struct {
			Type   block.Type
			ID     string
			Anchor string
			Body   template.HTML
		}{Type: b.BlockType(), ID: b.BlockID(), Anchor: slug.AnchorID(b.BlockID()), Body: body})
		if err != nil {
			return "", err
		}
		buf.WriteString(string(section))
	}
	return template.HTML(buf.String()), nil // nolint: gosec
}

func (p *pass) block(b block.Block) (template.HTML, error) {
	h, ok := p.renderer.handlers[b.BlockType()]
	if _, unknown := b.(block.Unknown); unknown || !ok {
		p.renderer.Logger.Warn().Str("block_type", string(b.BlockType())).Str("block_id", b.BlockID()).Msg("unknown block")
		return execute("unknown", string(b.BlockType()))
	}
	return h(p, b)
}

func (p *pass) legacy(content string, embeds []embed.Descriptor) (template.HTML, error) {
	body := p.markdown(content)
	resolved := make([]template.HTML, 0, len(embeds))
	for _, d := range embeds {
		resolved = append(resolved, p.resolve(d))
	}
	return execute("legacy", struct {
		Content template.HTML
		Embeds  []template.HTML
	}{Content: body, Embeds: resolved})
}

// markdown runs the markdown pipeline: the directives are extracted, the prose between them is rendered and sanitized
// and every directive is resolved at the position it was found.
func (p *pass) markdown(text string) template.HTML {
	result := directive.Extract(text)
	if len(result.Directives) == 0 {
		return p.renderer.Markdown.Render(result.Text)
	}

	var buf strings.Builder
	for _, segment := range result.Split() {
		if !segment.IsEmbed {
			buf.WriteString(string(p.renderer.Markdown.Render(segment.Markdown)))
			continue
		}
		d := result.Directives[segment.Index]
		buf.WriteString(string(p.resolve(embed.Descriptor{Type: embed.Type(d.Type), URL: d.URL, Title: d.Title})))
	}
	return template.HTML(buf.String()) // nolint: gosec
}

func (p *pass) resolve(d embed.Descriptor) template.HTML {
	result := p.renderer.Resolver.Resolve(d)
	if result.Fallback != nil {
		p.fallbacks = append(p.fallbacks, *result.Fallback)
	}
	return result.HTML
}

func renderMarkdown(p *pass, b block.Block) (template.HTML, error) {
	return p.markdown(b.(block.Markdown).Content), nil
}

func renderEmbed(p *pass, b block.Block) (template.HTML, error) {
	return p.resolve(b.(block.Embed).Descriptor()), nil
}

func renderAttachments(p *pass, b block.Block) (template.HTML, error) {
	items := b.(block.Attachments).Items
	cards := make([]template.HTML, 0, len(items))
	for _, item := range items {
		cards = append(cards, p.resolve(item.Descriptor()))
	}
	return execute("attachments", cards)
}

func renderCallout(p *pass, b block.Block) (template.HTML, error) {
	c := b.(block.Callout)
	return execute("callout", struct {
		Variant block.Variant
		Title   string
		Body    template.HTML
	}{Variant: c.Variant, Title: c.Title, Body: p.markdown(c.Content)})
}

func renderDivider(_ *pass, _ block.Block) (template.HTML, error) {
	return execute("divider", nil)
}

func renderGallery(p *pass, b block.Block) (template.HTML, error) {
	return p.resolve(b.(block.Gallery).Descriptor()), nil
}

// markdownContent joins the markdown blocks, the outline is built from it.
func markdownContent(blocks []block.Block) string {
	var contents []string
	for _, b := range blocks {
		if m, ok := b.(block.Markdown); ok {
			contents = append(contents, m.Content)
		}
	}
	return strings.Join(contents, "\n\n")
}

func warnings(err error) []string {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}

	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return positionLess(keys[i], keys[j])
	})

	result := make([]string, 0, len(keys))
	for _, key := range keys {
		result = append(result, fmt.Sprintf("block at position %s: %s", key, errs[key].Error()))
	}
	return result
}

// positionLess orders the numeric positions by value and puts any other key after them.
func positionLess(a, b string) bool {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return x < y
	case errA == nil || errB == nil:
		return errA == nil
	default:
		return a < b
	}
}

func execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("fail to execute the template '%s': %w", name, err)
	}
	return template.HTML(buf.String()), nil // nolint: gosec
}
