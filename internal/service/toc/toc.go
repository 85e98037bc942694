package toc

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"nitro/content-render/internal/service/slug"
)

var headingRegex = regexp.MustCompile(`(?m)^(#{2,3})[ \t]+(.+)$`)

// minimum number of headings for the outline to be displayed.
const minimum = 2

// Heading is an entry of the outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Extract the level 2 and 3 headings in document order.
func Extract(markdown string) []Heading {
	var headings []Heading
	for _, match := range headingRegex.FindAllStringSubmatch(markdown, -1) {
		text := strings.TrimSpace(match[2])
		if text == "" {
			continue
		}
		headings = append(headings, Heading{
			Level: len(match[1]),
			Text:  text,
			ID:    slug.Make(text),
		})
	}
	return headings
}

// Display reports if the outline has enough entries to be shown.
func Display(headings []Heading) bool {
	return len(headings) >= minimum
}

var navTemplate = template.Must(template.New("toc").Parse(
	`<nav class="toc"><ul>{{ range . }}<li class="toc-level-{{ .Level }}"><a href="#{{ .ID }}">{{ .Text }}</a></li>{{ end }}</ul></nav>`,
))

// Nav renders the outline. Nothing is rendered when the outline should not be displayed.
func Nav(headings []Heading) (template.HTML, error) {
	if !Display(headings) {
		return "", nil
	}
	var buf bytes.Buffer
	if err := navTemplate.Execute(&buf, headings); err != nil {
		return "", fmt.Errorf("fail to render the outline: %w", err)
	}
	return template.HTML(buf.String()), nil // nolint: gosec
}

// Anchors list the ids of the level 2 and 3 headings present at the HTML.
func Anchors(payload []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("fail to parse the HTML: %w", err)
	}

	var anchors []string
	doc.Find("h2, h3").Each(func(_ int, selection *goquery.Selection) {
		if id, ok := selection.Attr("id"); ok {
			anchors = append(anchors, id)
		}
	})
	return anchors, nil
}

// Verify returns the headings without a matching anchor at the rendered HTML.
func Verify(payload []byte, headings []Heading) ([]Heading, error) {
	anchors, err := Anchors(payload)
	if err != nil {
		return nil, err
	}

	index := make(map[string]struct{}, len(anchors))
	for _, anchor := range anchors {
		index[anchor] = struct{}{}
	}

	var missing []Heading
	for _, heading := range headings {
		if _, ok := index[heading.ID]; !ok {
			missing = append(missing, heading)
		}
	}
	return missing, nil
}
