package render

import (
	"bytes"
	"fmt"
	"html/template"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}</title>
</head>
<body>
<article class="document" data-slug="{{ .Slug }}">
{{- if .Title }}
<h1 class="document-title">{{ .Title }}</h1>
{{- end }}
{{ .Outline }}
{{ .HTML }}
</article>
</body>
</html>
`))

// Page wraps the output into a standalone HTML page.
func Page(doc Document, output Output) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title   string
		Slug    string
		Outline template.HTML
		HTML    template.HTML
	}{Title: doc.Title, Slug: doc.ID(), Outline: output.Outline, HTML: output.HTML})
	if err != nil {
		return nil, fmt.Errorf("fail to render the page of '%s': %w", doc.ID(), err)
	}
	return buf.Bytes(), nil
}
