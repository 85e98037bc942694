package block

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Sequence is the ordered list of blocks of a document. It decodes the tagged JSON form where the "type" field selects
// the variant.
type Sequence []Block

type header struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
}

var decoders = map[Type]func([]byte) (Block, error){
	TypeMarkdown:    decodeAs[Markdown],
	TypeEmbed:       decodeAs[Embed],
	TypeAttachments: decodeAs[Attachments],
	TypeCallout:     decodeAs[Callout],
	TypeDivider:     decodeAs[Divider],
	TypeGallery:     decodeAs[Gallery],
}

func decodeAs[T Block](payload []byte) (Block, error) {
	var b T
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// Decode a single block. An unrecognized type gives an Unknown block instead of an error.
func Decode(payload []byte) (Block, error) {
	var h header
	if err := json.Unmarshal(payload, &h); err != nil {
		return nil, fmt.Errorf("fail to decode the block header: %w", err)
	}

	decoder, ok := decoders[Type(strings.ToLower(strings.TrimSpace(string(h.Type))))]
	if !ok {
		raw := make([]byte, len(payload))
		copy(raw, payload)
		return Unknown{ID: h.ID, Type: string(h.Type), Raw: raw}, nil
	}

	b, err := decoder(payload)
	if err != nil {
		return nil, fmt.Errorf("fail to decode the '%s' block '%s': %w", h.Type, h.ID, err)
	}
	return b, nil
}

// UnmarshalJSON decodes the blocks keeping their order.
func (s *Sequence) UnmarshalJSON(payload []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		return fmt.Errorf("fail to decode the block sequence: %w", err)
	}

	result := make(Sequence, 0, len(raws))
	for i, raw := range raws {
		b, err := Decode(raw)
		if err != nil {
			return fmt.Errorf("fail to decode the block at position %d: %w", i, err)
		}
		result = append(result, b)
	}
	*s = result
	return nil
}

// MarshalJSON encodes the blocks with their "type" field.
func (s Sequence) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(s))
	for i, b := range s {
		payload, err := Encode(b)
		if err != nil {
			return nil, fmt.Errorf("fail to encode the block at position %d: %w", i, err)
		}
		raws = append(raws, payload)
	}
	return json.Marshal(raws)
}

// Encode a single block with its "type" field.
func Encode(b Block) ([]byte, error) {
	switch v := b.(type) {
	case Markdown:
		type alias Markdown
		return json.Marshal(struct {
			Type Type `json:"type"`
			alias
		}{Type: v.BlockType(), alias: alias(v)})
	case Embed:
		type alias Embed
		return json.Marshal(struct {
			Type Type `json:"type"`
			alias
		}{Type: v.BlockType(), alias: alias(v)})
	case Attachments:
		type alias Attachments
		return json.Marshal(struct {
			Type Type `json:"type"`
			alias
		}{Type: v.BlockType(), alias: alias(v)})
	case Callout:
		type alias Callout
		return json.Marshal(struct {
			Type Type `json:"type"`
			alias
		}{Type: v.BlockType(), alias: alias(v)})
	case Divider:
		type alias Divider
		return json.Marshal(struct {
			Type Type `json:"type"`
			alias
		}{Type: v.BlockType(), alias: alias(v)})
	case Gallery:
		type alias Gallery
		return json.Marshal(struct {
			Type Type `json:"type"`
			alias
		}{Type: v.BlockType(), alias: alias(v)})
	case Unknown:
		if len(v.Raw) > 0 {
			return v.Raw, nil
		}
		return json.Marshal(header{ID: v.ID, Type: Type(v.Type)})
	default:
		return nil, fmt.Errorf("unsupported block '%T'", b)
	}
}
