package block

import (
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"nitro/content-render/internal/service/embed"
)

// Validate checks the sequence. The error is a validation.Errors keyed by the block position.
func Validate(blocks []Block) error {
	var (
		errs = validation.Errors{}
		seen = make(map[string]int, len(blocks))
	)
	for i, b := range blocks {
		key := strconv.Itoa(i)
		if err := validateBlock(b); err != nil {
			errs[key] = err
			continue
		}

		id := strings.TrimSpace(b.BlockID())
		if previous, ok := seen[id]; ok {
			errs[key] = validation.NewError(
				"block_duplicate_id", fmt.Sprintf("the id '%s' is already used by the block at position %d", id, previous),
			)
			continue
		}
		seen[id] = i
	}
	return errs.Filter()
}

func validateBlock(b Block) error {
	if v, ok := b.(validation.Validatable); ok {
		return v.Validate()
	}
	return validation.NewError("block_unsupported", fmt.Sprintf("unsupported block '%T'", b))
}

func (b Markdown) Validate() error {
	return validation.ValidateStruct(&b, validation.Field(&b.ID, validation.Required))
}

func (b Embed) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.EmbedType, validation.Required, validation.By(knownEmbedType)),
		validation.Field(&b.StartTime, validation.Min(0)),
	)
}

func (a Attachment) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.URL, is.URL),
		validation.Field(&a.Size, validation.Min(int64(0))),
	)
}

func (b Attachments) Validate() error {
	ids := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		ids = append(ids, item.ID)
	}
	return validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Items, validation.By(uniqueIDs(ids))),
	)
}

func (b Callout) Validate() error {
	variants := make([]interface{}, 0, len(variantLabels))
	for _, v := range Variants() {
		variants = append(variants, v)
	}
	return validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Variant, validation.Required, validation.In(variants...)),
	)
}

func (b Divider) Validate() error {
	return validation.ValidateStruct(&b, validation.Field(&b.ID, validation.Required))
}

func (i Image) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ID, validation.Required),
		validation.Field(&i.Src, validation.Required),
	)
}

func (b Gallery) Validate() error {
	ids := make([]string, 0, len(b.Images))
	for _, image := range b.Images {
		ids = append(ids, image.ID)
	}
	return validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Images, validation.By(uniqueIDs(ids))),
	)
}

func (b Unknown) Validate() error {
	return validation.NewError("block_unknown_type", fmt.Sprintf("unknown block type '%s'", b.Type))
}

func knownEmbedType(value interface{}) error {
	t, _ := value.(embed.Type)
	if !embed.Type(strings.ToLower(string(t))).Known() {
		return validation.NewError("block_unknown_embed_type", fmt.Sprintf("unknown embed type '%s'", t))
	}
	return nil
}

func uniqueIDs(ids []string) validation.RuleFunc {
	return func(interface{}) error {
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				return validation.NewError("block_duplicate_item_id", fmt.Sprintf("the id '%s' is used more than once", id))
			}
			seen[id] = struct{}{}
		}
		return nil
	}
}
