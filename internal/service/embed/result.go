package embed

import (
	"errors"
	"fmt"
	"html/template"
)

// Reason explains why a fallback card was rendered.
type Reason string

// Fallback reasons.
const (
	ReasonMissingField    Reason = "missing-field"
	ReasonInvalidDomain   Reason = "invalid-domain"
	ReasonLoadFailure     Reason = "load-failure"
	ReasonUnsupportedType Reason = "unsupported-type"
)

var (
	// ErrMissingField is returned when a required parameter of the embed type is absent.
	ErrMissingField = errors.New("embed: missing required field")
	// ErrInvalidDomain is returned when the address is not allowed to be embedded or can't be parsed.
	ErrInvalidDomain = errors.New("embed: domain not allowed")
	// ErrLoadFailure is returned when the media failed to load.
	ErrLoadFailure = errors.New("embed: media failed to load")
	// ErrUnsupportedType is returned when there is no strategy for the embed type.
	ErrUnsupportedType = errors.New("embed: unsupported type")
)

// Fallback describes an embed that could not be rendered.
type Fallback struct {
	Type   Type
	Reason Reason
	Field  string
	Host   string
	URL    string
	Err    error
}

// Message is the text displayed at the fallback card.
func (f Fallback) Message() string {
	switch f.Reason {
	case ReasonMissingField:
		return fmt.Sprintf("This %s embed is missing its %s.", f.Type, f.Field)
	case ReasonInvalidDomain:
		return fmt.Sprintf("Embedding content from %s is not allowed.", f.Host)
	case ReasonLoadFailure:
		return "This content failed to load."
	default:
		if f.Type == "" {
			return "This embed has no type."
		}
		return fmt.Sprintf("Embeds of type %q are not supported.", string(f.Type))
	}
}

// Result is the output of a descriptor resolution. Fallback is set when the media could not be rendered and the HTML
// holds the fallback card.
type Result struct {
	Type     Type
	HTML     template.HTML
	Fallback *Fallback
}

// Rendered reports if the media was rendered.
func (r Result) Rendered() bool {
	return r.Fallback == nil
}

func newFallback(t Type, reason Reason, location string) Fallback {
	f := Fallback{Type: t, Reason: reason, URL: location}
	switch reason {
	case ReasonMissingField:
		f.Err = ErrMissingField
	case ReasonInvalidDomain:
		f.Err = ErrInvalidDomain
	case ReasonLoadFailure:
		f.Err = ErrLoadFailure
	default:
		f.Err = ErrUnsupportedType
	}
	return f
}
