package block

import (
	"strings"

	"github.com/google/uuid"

	"nitro/content-render/internal/service/embed"
)

// Normalize applies the field defaults and returns a new sequence, the input is left untouched. Blocks and items
// without id get a generated one, unknown callout variants become insight, an empty callout title takes the variant
// label and an absent fullscreen flag is set to true.
func Normalize(blocks []Block) []Block {
	result := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		result = append(result, normalize(b))
	}
	return result
}

func normalize(b Block) Block {
	switch v := b.(type) {
	case Markdown:
		v.ID = ensureID(v.ID)
		return v
	case Embed:
		v.ID = ensureID(v.ID)
		v.EmbedType = embed.Type(strings.ToLower(strings.TrimSpace(string(v.EmbedType))))
		if v.AllowFullscreen == nil {
			fullscreen := true
			v.AllowFullscreen = &fullscreen
		}
		return v
	case Attachments:
		v.ID = ensureID(v.ID)
		items := make([]Attachment, len(v.Items))
		for i, item := range v.Items {
			item.ID = ensureID(item.ID)
			items[i] = item
		}
		v.Items = items
		return v
	case Callout:
		v.ID = ensureID(v.ID)
		v.Variant = Variant(strings.ToLower(strings.TrimSpace(string(v.Variant))))
		if !v.Variant.Known() {
			v.Variant = VariantInsight
		}
		if strings.TrimSpace(v.Title) == "" {
			v.Title = v.Variant.Label()
		}
		return v
	case Divider:
		v.ID = ensureID(v.ID)
		return v
	case Gallery:
		v.ID = ensureID(v.ID)
		images := make([]Image, len(v.Images))
		for i, image := range v.Images {
			image.ID = ensureID(image.ID)
			images[i] = image
		}
		v.Images = images
		return v
	case Unknown:
		v.ID = ensureID(v.ID)
		return v
	default:
		return b
	}
}

func ensureID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}
