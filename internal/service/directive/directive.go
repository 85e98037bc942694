// Package directive handles the inline embed syntax found inside markdown prose:
//
//	[embed:TYPE url="URL"]
//	[embed:TYPE url="URL" title="TITLE"]
//
// Extraction runs over the raw text before any markdown parsing, so directive-like text inside fenced code blocks is
// extracted as well.
package directive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// The placeholder is built from private-use code points so markdown parsers treat it as plain text.
const (
	placeholderOpen  = '\uE000'
	placeholderClose = '\uE001'
)

var (
	directiveRegex   = regexp.MustCompile(`\[embed:(\w+)\s+url="([^"]+)"(?:\s+title="([^"]*)")?\]`)
	placeholderRegex = regexp.MustCompile("\uE000embed:([0-9]+)\uE001")
)

// Directive is an embed lifted out of the markdown text.
type Directive struct {
	Type  string
	URL   string
	Title string
}

// String returns the canonical textual form of the directive.
func (d Directive) String() string {
	return fmt.Sprintf(`[embed:%s url="%s" title="%s"]`, d.Type, d.URL, d.Title)
}

// Result holds the processed text and the directives extracted from it, the index of each directive matches the index
// carried by its placeholder.
type Result struct {
	Text       string
	Directives []Directive
}

// Extract replace every directive at the text with a positional placeholder.
func Extract(raw string) Result {
	raw = stripPlaceholderRunes(raw)

	spans := directiveRegex.FindAllStringSubmatchIndex(raw, -1)
	if len(spans) == 0 {
		return Result{Text: raw}
	}

	var (
		b          strings.Builder
		directives = make([]Directive, 0, len(spans))
		position   int
	)
	for _, span := range spans {
		b.WriteString(raw[position:span[0]])

		d := Directive{
			Type: strings.ToLower(raw[span[2]:span[3]]),
			URL:  raw[span[4]:span[5]],
		}
		if span[6] >= 0 {
			d.Title = raw[span[6]:span[7]]
		}
		if d.Title == "" {
			d.Title = d.URL
		}

		b.WriteString(Placeholder(len(directives)))
		directives = append(directives, d)
		position = span[1]
	}
	b.WriteString(raw[position:])

	return Result{Text: b.String(), Directives: directives}
}

// Placeholder returns the token that marks the directive at the given index.
func Placeholder(index int) string {
	return string(placeholderOpen) + "embed:" + strconv.Itoa(index) + string(placeholderClose)
}

// Segment is a piece of processed text, either markdown or a reference to an extracted directive.
type Segment struct {
	Markdown string
	Index    int
	IsEmbed  bool
}

// Split the processed text at the placeholders. Placeholders pointing outside the directive list are kept as text.
func (r Result) Split() []Segment {
	var (
		segments []Segment
		position int
	)
	for _, span := range placeholderRegex.FindAllStringSubmatchIndex(r.Text, -1) {
		index, err := strconv.Atoi(r.Text[span[2]:span[3]])
		if err != nil || index >= len(r.Directives) {
			continue
		}
		if text := r.Text[position:span[0]]; text != "" {
			segments = append(segments, Segment{Markdown: text})
		}
		segments = append(segments, Segment{Index: index, IsEmbed: true})
		position = span[1]
	}
	if text := r.Text[position:]; text != "" {
		segments = append(segments, Segment{Markdown: text})
	}
	return segments
}

// Restore puts every directive back at its placeholder position using the canonical directive form.
func (r Result) Restore() string {
	return placeholderRegex.ReplaceAllStringFunc(r.Text, func(token string) string {
		index, err := strconv.Atoi(placeholderRegex.FindStringSubmatch(token)[1])
		if err != nil || index >= len(r.Directives) {
			return token
		}
		return r.Directives[index].String()
	})
}

func stripPlaceholderRunes(text string) string {
	if !strings.ContainsAny(text, string([]rune{placeholderOpen, placeholderClose})) {
		return text
	}
	return strings.Map(func(r rune) rune {
		if r == placeholderOpen || r == placeholderClose {
			return -1
		}
		return r
	}, text)
}
