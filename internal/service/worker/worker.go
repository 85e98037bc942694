package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"

	"nitro/content-render/internal/service"
	"nitro/content-render/internal/service/render"
	"nitro/content-render/internal/service/toc"
)

// Provider represents the providers resonsible to load the documents.
type Provider interface {
	Authority(path string) bool
	Load(ctx context.Context, path string) (render.Document, error)
} // nolint: golint

type documentRenderer interface {
	Render(doc render.Document) (render.Output, error)
}

type workerError struct {
	units []workerErrorUnit
}

func (w workerError) Error() string {
	if len(w.units) == 1 {
		return w.units[0].err.Error()
	}

	errors := make([]string, 0, len(w.units))
	for _, unit := range w.units {
		errors = append(errors, unit.err.Error())
	}
	return fmt.Sprintf("multiple errors detected ('%s')", strings.Join(errors, "', '"))
}

type workerErrorUnit struct {
	err   error
	entry service.Entry
}

// Worker renders the entries. The document is loaded by the first provider with authority over the file.
type Worker struct {
	Providers []Provider
	Renderer  documentRenderer
	Logger    *zerolog.Logger
}

// Process the entries.
func (w Worker) Process(ctx context.Context, entries []service.Entry) ([]service.Entry, error) {
	if len(w.Providers) == 0 {
		return nil, errors.New("missing 'providers'")
	}
	if w.Renderer == nil {
		return nil, errors.New("missing 'renderer'")
	}
	logger := w.logger()

	var (
		errors    []workerErrorUnit
		result    []service.Entry
		processed int
		total     = len(entries)
	)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing interrupted: %w", err)
		}

		rendered, err := w.process(ctx, entry)
		if err != nil {
			logger.Warn().Err(err).Str("path", entry.Path).Msg("fail to render the file")
			errors = append(errors, workerErrorUnit{err: err, entry: entry})
		} else {
			result = append(result, rendered)
		}
		processed++
		fmt.Printf("%d of %d entries processed\n", aurora.Bold(processed), aurora.Bold(total))
	}

	if len(errors) == 0 {
		return result, nil
	}
	return nil, workerError{units: errors}
}

func (w Worker) process(ctx context.Context, entry service.Entry) (service.Entry, error) {
	p := w.provider(entry.Path)
	if p == nil {
		return entry, fmt.Errorf("no provider for the file '%s'", entry.Path)
	}

	doc, err := p.Load(ctx, entry.Path)
	if err != nil {
		return entry, fmt.Errorf("fail to load the document: %w", err)
	}

	output, err := w.Renderer.Render(doc)
	if err != nil {
		return entry, fmt.Errorf("fail to render the document '%s': %w", entry.Path, err)
	}

	missing, err := toc.Verify([]byte(output.HTML), output.Headings)
	if err != nil {
		return entry, fmt.Errorf("fail to verify the anchors of '%s': %w", entry.Path, err)
	}

	page, err := render.Page(doc, output)
	if err != nil {
		return entry, err
	}

	entry.Slug = doc.ID()
	entry.Title = doc.Title
	entry.Page = page
	entry.Headings = output.Headings
	entry.Fallbacks = output.Fallbacks
	entry.MissingAnchors = missing
	entry.Warnings = output.Warnings
	return entry, nil
}

func (w Worker) provider(path string) Provider {
	for _, provider := range w.Providers {
		if provider.Authority(path) {
			return provider
		}
	}
	return nil
}

func (w Worker) logger() *zerolog.Logger {
	if w.Logger == nil {
		logger := zerolog.Nop()
		return &logger
	}
	return w.Logger
}
