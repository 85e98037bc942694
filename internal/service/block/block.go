// Package block holds the typed units a document content is made of. A document is an ordered sequence of blocks and
// the order is the display order.
package block

import (
	"strings"

	"nitro/content-render/internal/service/embed"
)

// Type discriminates the block variants.
type Type string

// Block types.
const (
	TypeMarkdown    Type = "markdown"
	TypeEmbed       Type = "embed"
	TypeAttachments Type = "attachments"
	TypeCallout     Type = "callout"
	TypeDivider     Type = "divider"
	TypeGallery     Type = "gallery"
)

// Types returns every known block type.
func Types() []Type {
	return []Type{TypeMarkdown, TypeEmbed, TypeAttachments, TypeCallout, TypeDivider, TypeGallery}
}

// Block is implemented by every variant.
type Block interface {
	BlockID() string
	BlockType() Type
}

// Markdown is a block of free-form markdown prose.
type Markdown struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func (b Markdown) BlockID() string { return b.ID }
func (Markdown) BlockType() Type   { return TypeMarkdown }

// Embed is a block holding a single third-party media.
type Embed struct {
	ID              string     `json:"id"`
	EmbedType       embed.Type `json:"embedType"`
	Src             string     `json:"src,omitempty"`
	Title           string     `json:"title,omitempty"`
	Caption         string     `json:"caption,omitempty"`
	AspectRatio     string     `json:"aspectRatio,omitempty"`
	StartTime       int        `json:"startTime,omitempty"`
	AllowFullscreen *bool      `json:"allowFullscreen,omitempty"`
}

func (b Embed) BlockID() string { return b.ID }
func (Embed) BlockType() Type   { return TypeEmbed }

// Descriptor converts the block into the resolver input.
func (b Embed) Descriptor() embed.Descriptor {
	return embed.Descriptor{
		Type:            b.EmbedType,
		Src:             b.Src,
		Title:           b.Title,
		Caption:         b.Caption,
		AspectRatio:     b.AspectRatio,
		StartTime:       b.StartTime,
		AllowFullscreen: b.AllowFullscreen,
	}
}

// Attachment is a downloadable file. Size is in bytes.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	FileType string `json:"fileType,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Descriptor converts the attachment into a file card descriptor.
func (a Attachment) Descriptor() embed.Descriptor {
	d := embed.Descriptor{Type: embed.TypeFile, URL: a.URL, FileName: a.Name, FileType: a.FileType}
	if a.Size > 0 {
		d.FileSize = embed.FormatSize(a.Size)
	}
	return d
}

// Attachments is an ordered list of files.
type Attachments struct {
	ID    string       `json:"id"`
	Items []Attachment `json:"items"`
}

func (b Attachments) BlockID() string { return b.ID }
func (Attachments) BlockType() Type   { return TypeAttachments }

// Variant of a callout.
type Variant string

// Callout variants.
const (
	VariantInsight    Variant = "insight"
	VariantAssumption Variant = "assumption"
	VariantRisk       Variant = "risk"
	VariantResult     Variant = "result"
	VariantTakeaway   Variant = "takeaway"
)

var variantLabels = map[Variant]string{
	VariantInsight:    "Insight",
	VariantAssumption: "Assumption",
	VariantRisk:       "Risk",
	VariantResult:     "Result",
	VariantTakeaway:   "Takeaway",
}

// Variants returns every callout variant.
func Variants() []Variant {
	return []Variant{VariantInsight, VariantAssumption, VariantRisk, VariantResult, VariantTakeaway}
}

// Known reports if the variant is one of the callout variants.
func (v Variant) Known() bool {
	_, ok := variantLabels[v]
	return ok
}

// Label is the title displayed when the callout has none.
func (v Variant) Label() string {
	if label, ok := variantLabels[v]; ok {
		return label
	}
	return variantLabels[VariantInsight]
}

// Callout is an emphasized note.
type Callout struct {
	ID      string  `json:"id"`
	Variant Variant `json:"variant"`
	Title   string  `json:"title,omitempty"`
	Content string  `json:"content"`
}

func (b Callout) BlockID() string { return b.ID }
func (Callout) BlockType() Type   { return TypeCallout }

// Divider separates sections, it has no payload.
type Divider struct {
	ID string `json:"id"`
}

func (b Divider) BlockID() string { return b.ID }
func (Divider) BlockType() Type   { return TypeDivider }

// Image is a gallery entry.
type Image struct {
	ID      string `json:"id"`
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Gallery is an ordered set of images browsed through the lightbox.
type Gallery struct {
	ID     string  `json:"id"`
	Images []Image `json:"images"`
}

func (b Gallery) BlockID() string { return b.ID }
func (Gallery) BlockType() Type   { return TypeGallery }

// Descriptor converts the gallery into the resolver input.
func (b Gallery) Descriptor() embed.Descriptor {
	images := make([]embed.Image, 0, len(b.Images))
	for _, image := range b.Images {
		images = append(images, embed.Image{Src: image.Src, Alt: image.Alt, Caption: image.Caption})
	}
	return embed.Descriptor{Type: embed.TypeGallery, Images: images}
}

// Unknown is a block whose type is not recognized. The payload is kept as it was decoded.
type Unknown struct {
	ID   string
	Type string
	Raw  []byte
}

func (b Unknown) BlockID() string { return b.ID }
func (b Unknown) BlockType() Type { return Type(strings.ToLower(strings.TrimSpace(b.Type))) }
