package parser

import (
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"

	"nitro/content-render/internal/service/slug"
)

// iframeAttributes are the only attributes kept on an iframe when the exception is enabled. Attribute names are
// lower-cased by the HTML tokenizer, so frameBorder and allowFullScreen arrive as frameborder and allowfullscreen.
var iframeAttributes = []string{
	"src", "width", "height", "frameborder", "allow", "allowfullscreen", "title", "style",
}

// languageClass is the class blackfriday writes on fenced code blocks.
var languageClass = regexp.MustCompile(`^language-[a-zA-Z0-9_+-]+$`)

// htmlFlags are the common flags without the smartypants substitutions, the prose is kept as written.
const htmlFlags = blackfriday.CommonHTMLFlags &^ (blackfriday.Smartypants | blackfriday.SmartypantsFractions |
	blackfriday.SmartypantsDashes | blackfriday.SmartypantsLatexDashes)

// Policy is the allow-list applied after the markdown is rendered. The baseline is the user generated content policy
// and the iframe element is only allowed when requested.
type Policy struct {
	AllowIframe bool
}

func (p Policy) build() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(languageClass).OnElements("code")
	if p.AllowIframe {
		policy.AllowElements("iframe")
		policy.AllowAttrs(iframeAttributes...).OnElements("iframe")
	}
	return policy
}

// Markdown expose a parser that transform Markdown into sanitized HTML.
type Markdown struct {
	Policy Policy

	policy *bluemonday.Policy
}

// Init the internal state.
func (m *Markdown) Init() {
	m.policy = m.Policy.build()
}

// Do transform the Markdown into HTML. Raw HTML is passed through by the markdown engine and filtered afterwards.
func (m Markdown) Do(payload []byte) []byte {
	if m.policy == nil {
		m.Init()
	}
	r := headingRenderer{
		HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: htmlFlags,
		}),
	}
	payload = blackfriday.Run(
		payload,
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
		blackfriday.WithRenderer(r),
	)
	return m.policy.SanitizeBytes(payload)
}

// Render is a shortcut to Do that works with strings.
func (m Markdown) Render(text string) template.HTML {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return template.HTML(m.Do([]byte(text))) // nolint: gosec
}

// headingRenderer writes the heading tags with the id derived from the heading text. The stock renderer would suffix
// repeated ids and break the link with the outline built from the raw markdown.
type headingRenderer struct {
	*blackfriday.HTMLRenderer
}

func (r headingRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if node.Type != blackfriday.Heading {
		return r.HTMLRenderer.RenderNode(w, node, entering)
	}

	if !entering {
		fmt.Fprintf(w, "</h%d>\n", node.Level)
		return blackfriday.GoToNext
	}

	if id := slug.Make(headingText(node)); id != "" {
		fmt.Fprintf(w, "<h%d id=\"%s\">", node.Level, id)
	} else {
		fmt.Fprintf(w, "<h%d>", node.Level)
	}
	return blackfriday.GoToNext
}

func headingText(node *blackfriday.Node) string {
	var b strings.Builder
	node.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && (n.Type == blackfriday.Text || n.Type == blackfriday.Code) {
			b.Write(n.Literal)
		}
		return blackfriday.GoToNext
	})
	return b.String()
}
