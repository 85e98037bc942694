// Package embed resolves third-party media references into HTML. Every descriptor produces an output: either the
// rendered media or a fallback card describing why the media could not be shown.
package embed

import "strings"

// Type identifies the rendering strategy of an embed.
type Type string

// Embed types with a dedicated strategy.
const (
	TypePDF          Type = "pdf"
	TypeYouTube      Type = "youtube"
	TypeAudio        Type = "audio"
	TypeGoogleDocs   Type = "gdocs"
	TypeGoogleSheets Type = "gsheets"
	TypeMSOffice     Type = "msoffice"
	TypeImage        Type = "image"
	TypeGallery      Type = "gallery"
	TypeFigma        Type = "figma"
	TypeCode         Type = "code"
	TypeGist         Type = "gist"
	TypeIframe       Type = "iframe"
	TypeChart        Type = "chart"
	TypeFile         Type = "file"
)

// Types returns every embed type with a dedicated strategy.
func Types() []Type {
	return []Type{
		TypePDF, TypeYouTube, TypeAudio, TypeGoogleDocs, TypeGoogleSheets, TypeMSOffice, TypeImage,
		TypeGallery, TypeFigma, TypeCode, TypeGist, TypeIframe, TypeChart, TypeFile,
	}
}

// Known reports if the type has a dedicated strategy.
func (t Type) Known() bool {
	_, ok := strategies[t]
	return ok
}

// Image is an entry of a gallery.
type Image struct {
	Src     string `json:"src" yaml:"src"`
	Alt     string `json:"alt,omitempty" yaml:"alt"`
	Caption string `json:"caption,omitempty" yaml:"caption"`
}

// Descriptor holds every parameter an embed can be described with. Each type reads the subset it needs.
type Descriptor struct {
	Type            Type     `json:"type" yaml:"type"`
	Src             string   `json:"src,omitempty" yaml:"src"`
	URL             string   `json:"url,omitempty" yaml:"url"`
	Title           string   `json:"title,omitempty" yaml:"title"`
	Caption         string   `json:"caption,omitempty" yaml:"caption"`
	AspectRatio     string   `json:"aspectRatio,omitempty" yaml:"aspectRatio"`
	StartTime       int      `json:"startTime,omitempty" yaml:"startTime"`
	AllowFullscreen *bool    `json:"allowFullscreen,omitempty" yaml:"allowFullscreen"`
	Images          []Image  `json:"images,omitempty" yaml:"images"`
	Code            string   `json:"code,omitempty" yaml:"code"`
	Language        string   `json:"language,omitempty" yaml:"language"`
	FileName        string   `json:"fileName,omitempty" yaml:"fileName"`
	FileSize        string   `json:"fileSize,omitempty" yaml:"fileSize"`
	FileType        string   `json:"fileType,omitempty" yaml:"fileType"`
	Whitelist       []string `json:"whitelist,omitempty" yaml:"whitelist"`
}

// Location returns the address of the media, the url takes precedence over the src.
func (d Descriptor) Location() string {
	if location := strings.TrimSpace(d.URL); location != "" {
		return location
	}
	return strings.TrimSpace(d.Src)
}

// Fullscreen reports if the media may go fullscreen, it defaults to true.
func (d Descriptor) Fullscreen() bool {
	return d.AllowFullscreen == nil || *d.AllowFullscreen
}

func (d Descriptor) label() string {
	if d.Title != "" {
		return d.Title
	}
	if d.Caption != "" {
		return d.Caption
	}
	return string(d.Type)
}
