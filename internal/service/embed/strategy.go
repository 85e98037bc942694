package embed

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"path"
	"strings"
)

const (
	viewerHeight   = 600
	documentHeight = 500

	frameResponsive = "position:absolute;top:0;left:0;width:100%;height:100%;border:0"
	frameFixed      = "width:100%;height:100%;border:0"

	playerAllow   = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"
	iframeSandbox = "allow-scripts allow-same-origin allow-popups allow-forms allow-presentation"
	gistSandbox   = "allow-scripts allow-same-origin allow-popups allow-popups-to-escape-sandbox"
)

var templates = template.Must(template.New("embed").Parse(`
{{- define "caption" }}{{ if .Caption }}<figcaption class="embed-caption">{{ .Caption }}</figcaption>{{ end }}{{ end -}}

{{- define "frame" -}}
<div class="embed-frame" style="{{ .Frame.Box }}"><iframe src="{{ .Frame.Src }}" title="{{ .Title }}" style="{{ .Frame.Style }}" loading="lazy" frameborder="0"
{{- if .Frame.Allow }} allow="{{ .Frame.Allow }}"{{ end }}
{{- if .Frame.Sandbox }} sandbox="{{ .Frame.Sandbox }}"{{ end }}
{{- if .Frame.Fullscreen }} allowfullscreen{{ end }}></iframe></div>
{{- end -}}

{{- define "framed" -}}
<figure class="embed embed-{{ .Type }}"{{ if .VideoID }} data-video-id="{{ .VideoID }}"{{ end }}>{{ template "frame" . }}{{ template "caption" . }}</figure>
{{- end -}}

{{- define "pdf" -}}
<figure class="embed embed-pdf">{{ template "frame" . }}<div class="embed-actions">
<a class="embed-action" href="{{ .Src }}" target="_blank" rel="noopener noreferrer">Open</a>
<a class="embed-action" href="{{ .Src }}" download>Download</a>
</div>{{ template "caption" . }}</figure>
{{- end -}}

{{- define "youtube" -}}
<figure class="embed embed-youtube" data-video-id="{{ .VideoID }}"><div class="embed-frame" style="{{ .Frame.Box }}">
<button type="button" class="embed-youtube-play" style="{{ .Frame.Style }}" data-embed-player="{{ .Frame.Src }}" aria-label="Play {{ .Title }}">
<img src="{{ .Thumbnail }}" alt="{{ .Title }}" loading="lazy"></button></div>{{ template "caption" . }}</figure>
{{- end -}}

{{- define "audio" -}}
<figure class="embed embed-audio">{{ if .Title }}<div class="embed-title">{{ .Title }}</div>{{ end }}
<audio controls preload="metadata" src="{{ .Src }}"></audio>{{ template "caption" . }}</figure>
{{- end -}}

{{- define "image" -}}
<figure class="embed embed-image"><button type="button" class="embed-lightbox-trigger" data-lightbox="single" data-index="0">
<img src="{{ .Src }}" alt="{{ .Alt }}" loading="lazy"></button>{{ template "caption" . }}</figure>
{{- end -}}

{{- define "gallery" -}}
<figure class="embed embed-gallery"><div class="embed-gallery-grid" data-lightbox="gallery" data-count="{{ len .Images }}">
{{- range $index, $image := .Images }}<button type="button" class="embed-lightbox-trigger" data-index="{{ $index }}"{{ if $image.Caption }} title="{{ $image.Caption }}"{{ end }}>
<img src="{{ $image.Src }}" alt="{{ $image.Alt }}" loading="lazy"></button>{{ end -}}
</div>{{ template "caption" . }}</figure>
{{- end -}}

{{- define "code" -}}
<figure class="embed embed-code"><div class="embed-code-header"><span class="embed-code-language">{{ .Language }}</span>
<button type="button" class="embed-code-copy" data-copy="code">Copy</button></div>
<pre class="embed-code-body"><code class="language-{{ .Language }}">{{ .Code }}</code></pre>{{ template "caption" . }}</figure>
{{- end -}}

{{- define "gist" -}}
<figure class="embed embed-gist"><iframe class="embed-gist-frame" title="{{ .Title }}" srcdoc="{{ .Document }}" sandbox="{{ .Frame.Sandbox }}" style="width:100%;border:0" scrolling="no" data-autoresize="content" onload="this.style.height=this.contentWindow.document.documentElement.scrollHeight+'px'"></iframe>
{{- template "caption" . }}</figure>
{{- end -}}

{{- define "file" -}}
<div class="embed embed-file"><span class="embed-file-icon">{{ .Extension }}</span><div class="embed-file-body">
{{- if .Src }}<a class="embed-file-name" href="{{ .Src }}" target="_blank" rel="noopener noreferrer" download>{{ .Name }}</a>
{{- else }}<span class="embed-file-name">{{ .Name }}</span>{{ end }}
{{- if .Meta }}<span class="embed-file-meta">{{ .Meta }}</span>{{ end }}</div></div>
{{- end -}}

{{- define "fallback" -}}
<div class="embed-fallback embed-fallback-{{ .Reason }}" data-embed-type="{{ .Type }}" role="note"><p class="embed-fallback-message">{{ .Message }}</p>
{{- if .URL }}<a class="embed-fallback-link" href="{{ .URL }}" target="_blank" rel="noopener noreferrer">Open</a>{{ end }}</div>
{{- end -}}
`))

type frame struct {
	Src        string
	Box        template.CSS
	Style      template.CSS
	Allow      string
	Sandbox    string
	Fullscreen bool
}

type view struct {
	Type      Type
	Src       string
	Title     string
	Caption   string
	Alt       string
	Frame     frame
	VideoID   string
	Thumbnail string
	Images    []Image
	Code      string
	Language  string
	Document  string
	Name      string
	Extension string
	Meta      string
}

// strategy renders one embed type. required returns the name of the missing field and domain checks the address
// before rendering, returning the host to be reported on rejection.
type strategy struct {
	template string
	required func(Descriptor) string
	domain   func(d Descriptor, whitelist []string) (string, bool)
	view     func(Descriptor) view
}

var strategies = map[Type]strategy{
	TypePDF:          {template: "pdf", required: requireLocation, view: pdfView},
	TypeYouTube:      {template: "youtube", required: requireYouTubeID, view: youTubeView},
	TypeAudio:        {template: "audio", required: requireLocation, view: baseView},
	TypeGoogleDocs:   {template: "framed", required: requireLocation, view: googleView},
	TypeGoogleSheets: {template: "framed", required: requireLocation, view: googleView},
	TypeMSOffice:     {template: "framed", required: requireLocation, view: msOfficeView},
	TypeImage:        {template: "image", required: requireLocation, view: imageView},
	TypeGallery:      {template: "gallery", required: requireImages, view: galleryView},
	TypeFigma:        {template: "framed", required: requireLocation, view: figmaView},
	TypeCode:         {template: "code", required: requireCode, view: codeView},
	TypeGist:         {template: "gist", required: requireScriptLocation, view: gistView},
	TypeIframe:       {template: "framed", required: requireLocation, domain: iframeDomain, view: iframeView},
	TypeChart:        {template: "framed", required: requireLocation, view: chartView},
	TypeFile:         {template: "file", required: func(Descriptor) string { return "" }, view: fileView},
}

func (s strategy) execute(d Descriptor) (template.HTML, error) {
	return execute(s.template, s.view(d))
}

func execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("fail to execute the template '%s': %w", name, err)
	}
	return template.HTML(buf.String()), nil // nolint: gosec
}

func requireLocation(d Descriptor) string {
	if d.Location() == "" {
		return "url"
	}
	return ""
}

// requireScriptLocation needs an http address, the gist script is injected from it.
func requireScriptLocation(d Descriptor) string {
	if !httpURL(d.Location()) {
		return "url"
	}
	return ""
}

func requireYouTubeID(d Descriptor) string {
	if ExtractYouTubeID(d.Location()) == "" {
		return "url"
	}
	return ""
}

func requireImages(d Descriptor) string {
	if len(galleryImages(d.Images)) == 0 {
		return "images"
	}
	return ""
}

func requireCode(d Descriptor) string {
	if strings.TrimSpace(d.Code) == "" {
		return "code"
	}
	return ""
}

func iframeDomain(d Descriptor, whitelist []string) (string, bool) {
	if len(whitelist) == 0 {
		return "", true
	}
	return Allowed(d.Location(), whitelist)
}


func baseView(d Descriptor) view {
	return view{Type: d.Type, Src: d.Location(), Title: d.label(), Caption: d.Caption}
}

func responsiveFrame(src string, r ratio) frame {
	return frame{
		Src:   src,
		Box:   template.CSS("position:relative;padding-bottom:" + r.padding() + ";height:0;overflow:hidden"),
		Style: frameResponsive,
	}
}

func fixedFrame(src string, height int) frame {
	return frame{
		Src:   src,
		Box:   template.CSS(fmt.Sprintf("position:relative;height:%dpx", height)),
		Style: frameFixed,
	}
}

func pdfView(d Descriptor) view {
	v := baseView(d)
	v.Frame = fixedFrame(v.Src, viewerHeight)
	return v
}

func youTubeView(d Descriptor) view {
	v := baseView(d)
	v.VideoID = ExtractYouTubeID(v.Src)
	v.Thumbnail = youTubeThumbnailURL(v.VideoID)
	v.Frame = responsiveFrame(youTubePlayerURL(v.VideoID, d.StartTime), parseRatio(d.AspectRatio, defaultRatio))
	v.Frame.Allow = playerAllow
	v.Frame.Fullscreen = d.Fullscreen()
	return v
}

func googleView(d Descriptor) view {
	v := baseView(d)
	v.Frame = fixedFrame(previewURL(v.Src), documentHeight)
	v.Frame.Fullscreen = d.Fullscreen()
	return v
}

func msOfficeView(d Descriptor) view {
	v := baseView(d)
	v.Frame = fixedFrame(msOfficeURL(v.Src), documentHeight)
	v.Frame.Fullscreen = d.Fullscreen()
	return v
}

func imageView(d Descriptor) view {
	v := baseView(d)
	v.Alt = d.Title
	if v.Alt == "" {
		v.Alt = d.Caption
	}
	return v
}

func galleryImages(images []Image) []Image {
	result := make([]Image, 0, len(images))
	for _, image := range images {
		if strings.TrimSpace(image.Src) == "" {
			continue
		}
		result = append(result, image)
	}
	return result
}

func galleryView(d Descriptor) view {
	v := baseView(d)
	v.Images = galleryImages(d.Images)
	return v
}

func figmaView(d Descriptor) view {
	v := baseView(d)
	v.Frame = responsiveFrame(figmaURL(v.Src), parseRatio(d.AspectRatio, defaultRatio))
	v.Frame.Fullscreen = d.Fullscreen()
	return v
}

func codeView(d Descriptor) view {
	v := baseView(d)
	v.Code = d.Code
	v.Language = strings.TrimSpace(d.Language)
	if v.Language == "" {
		v.Language = "text"
	}
	return v
}

// gistView embeds the gist script at a minimal document loaded through srcdoc.
func gistView(d Descriptor) view {
	v := baseView(d)
	v.Document = fmt.Sprintf(
		`<!DOCTYPE html><html><head><base target="_parent"><style>body{margin:0}</style></head>`+
			`<body><script src="%s"></script></body></html>`,
		html.EscapeString(gistScriptURL(v.Src)),
	)
	v.Frame.Sandbox = gistSandbox
	return v
}

func iframeView(d Descriptor) view {
	v := baseView(d)
	v.Frame = responsiveFrame(v.Src, parseRatio(d.AspectRatio, defaultRatio))
	v.Frame.Sandbox = iframeSandbox
	v.Frame.Fullscreen = d.Fullscreen()
	return v
}

func chartView(d Descriptor) view {
	v := baseView(d)
	v.Frame = responsiveFrame(v.Src, parseRatio(d.AspectRatio, chartRatio))
	return v
}

func fileView(d Descriptor) view {
	v := baseView(d)

	v.Name = d.FileName
	if v.Name == "" {
		v.Name = d.Title
	}
	if v.Name == "" && v.Src != "" {
		v.Name = fileName(v.Src)
	}
	if v.Name == "" {
		v.Name = "Download file"
	}

	v.Extension = strings.ToUpper(strings.TrimPrefix(path.Ext(v.Name), "."))
	if v.Extension == "" {
		v.Extension = "FILE"
	}

	var meta []string
	for _, value := range []string{d.FileType, d.FileSize} {
		if value = strings.TrimSpace(value); value != "" {
			meta = append(meta, value)
		}
	}
	v.Meta = strings.Join(meta, " · ")
	return v
}
