package embed

import (
	"fmt"
	"html/template"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog"
)

// Resolver validates descriptors and dispatch them to the strategy of their type.
type Resolver struct {
	// Whitelist holds the domains allowed for the generic iframe type. An empty whitelist allows any domain.
	Whitelist []string
	Logger    *zerolog.Logger
}

// Init checks the whitelist entries and that every type has a strategy.
func (r *Resolver) Init() error {
	if r.Logger == nil {
		logger := zerolog.Nop()
		r.Logger = &logger
	}

	whitelist := make([]string, 0, len(r.Whitelist))
	for _, domain := range r.Whitelist {
		domain = normalizeDomain(domain)
		if err := validation.Validate(domain, validation.Required, is.Domain); err != nil {
			return fmt.Errorf("invalid whitelist entry '%s': %w", domain, err)
		}
		whitelist = append(whitelist, domain)
	}
	r.Whitelist = whitelist

	for _, t := range Types() {
		if _, ok := strategies[t]; !ok {
			return fmt.Errorf("missing strategy for the type '%s'", t)
		}
	}
	return nil
}

// Resolve renders the descriptor. It never fails, problems are reported through the fallback of the result.
func (r Resolver) Resolve(d Descriptor) Result {
	d.Type = Type(strings.ToLower(strings.TrimSpace(string(d.Type))))

	s, ok := strategies[d.Type]
	if !ok {
		f := newFallback(d.Type, ReasonUnsupportedType, d.Location())
		f.Err = fmt.Errorf("%w: '%s'", ErrUnsupportedType, d.Type)
		return r.fallback(f)
	}

	if field := s.required(d); field != "" {
		f := newFallback(d.Type, ReasonMissingField, d.Location())
		f.Field = field
		f.Err = fmt.Errorf("%w: %s", ErrMissingField, field)
		return r.fallback(f)
	}

	if s.domain != nil {
		if host, ok := s.domain(d, r.whitelist(d)); !ok {
			f := newFallback(d.Type, ReasonInvalidDomain, d.Location())
			f.Host = host
			f.Err = fmt.Errorf("%w: %s", ErrInvalidDomain, host)
			return r.fallback(f)
		}
	}

	payload, err := s.execute(d)
	if err != nil {
		return r.Fail(d, err)
	}
	return Result{Type: d.Type, HTML: payload}
}

// Fail builds the terminal fallback of a media that failed to load.
func (r Resolver) Fail(d Descriptor, cause error) Result {
	f := newFallback(d.Type, ReasonLoadFailure, d.Location())
	if cause != nil {
		f.Err = fmt.Errorf("%w: %s", ErrLoadFailure, cause.Error())
	}
	return r.fallback(f)
}

// player renders the YouTube player that replaces the click-to-play placeholder.
func (r Resolver) player(d Descriptor) Result {
	payload, err := execute("framed", youTubeView(d))
	if err != nil {
		return r.Fail(d, err)
	}
	return Result{Type: TypeYouTube, HTML: payload}
}

// The descriptor whitelist takes precedence over the resolver one.
func (r Resolver) whitelist(d Descriptor) []string {
	if len(d.Whitelist) > 0 {
		return d.Whitelist
	}
	return r.Whitelist
}

func (r Resolver) fallback(f Fallback) Result {
	r.logger().Debug().
		Str("embed_type", string(f.Type)).
		Str("reason", string(f.Reason)).
		Str("field", f.Field).
		Str("host", f.Host).
		Msg("embed rendered as fallback")

	payload, err := execute("fallback", f)
	if err != nil {
		payload = template.HTML(`<div class="embed-fallback"><p class="embed-fallback-message">` + // nolint: gosec
			template.HTMLEscapeString(f.Message()) + `</p></div>`)
	}
	return Result{Type: f.Type, HTML: payload, Fallback: &f}
}

func (r Resolver) logger() *zerolog.Logger {
	if r.Logger == nil {
		logger := zerolog.Nop()
		return &logger
	}
	return r.Logger
}
