package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"

	"nitro/content-render/internal/service"
	"nitro/content-render/internal/service/embed"
	"nitro/content-render/internal/service/parser"
	"nitro/content-render/internal/service/provider"
	"nitro/content-render/internal/service/render"
	"nitro/content-render/internal/service/scan"
	"nitro/content-render/internal/service/slug"
	"nitro/content-render/internal/service/worker"
)

// ClientIgnore holds the ignore list for files.
type ClientIgnore struct {
	File []string
}

// Client is responsible to bootstrap the application.
type Client struct {
	Path        string
	Output      string
	Whitelist   []string
	AllowIframe bool
	Strict      bool
	Ignore      ClientIgnore
	Logger      *zerolog.Logger

	renderer  render.Renderer
	providers []worker.Provider
}

// Run starts the application execution. The result reports if the execution should be considered a failure, it only
// happens at strict mode when any file has findings.
func (c Client) Run(ctx context.Context) (bool, error) {
	if err := c.init(); err != nil {
		return false, fmt.Errorf("fail during init: %w", err)
	}

	s := scan.Scan{Ignore: c.Ignore.File}
	if err := s.Init(); err != nil {
		return false, fmt.Errorf("fail to initialize the scan service: %w", err)
	}
	entries, err := s.Process(c.Path)
	if err != nil {
		return false, fmt.Errorf("fail to scan the files: %w", err)
	}

	w := worker.Worker{Providers: c.providers, Renderer: c.renderer, Logger: c.Logger}
	entries, err = w.Process(ctx, entries)
	if err != nil {
		return false, fmt.Errorf("fail to render the documents: %w", err)
	}

	if err := c.write(entries); err != nil {
		return false, fmt.Errorf("fail to write the pages: %w", err)
	}

	found := c.output(entries)
	return c.Strict && found, nil
}

func (c *Client) init() error {
	if c.Path == "" {
		return errors.New("missing 'path'")
	}

	stat, err := os.Stat(c.Path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if err != nil {
		return fmt.Errorf("fail to check the path stat: %w", err)
	}
	if !stat.IsDir() {
		return errors.New("path is expected to be a directory")
	}

	if c.Logger == nil {
		logger := zerolog.Nop()
		c.Logger = &logger
	}

	c.renderer = render.Renderer{
		Markdown: parser.Markdown{Policy: parser.Policy{AllowIframe: c.AllowIframe}},
		Resolver: embed.Resolver{Whitelist: c.Whitelist},
		Logger:   c.Logger,
	}
	if err := c.renderer.Init(); err != nil {
		return fmt.Errorf("fail to initialize the renderer: %w", err)
	}

	var f provider.File
	if err := f.Init(); err != nil {
		return fmt.Errorf("fail to initialize the file provider: %w", err)
	}
	c.providers = append(c.providers, f)

	var m provider.Markdown
	if err := m.Init(); err != nil {
		return fmt.Errorf("fail to initialize the markdown provider: %w", err)
	}
	c.providers = append(c.providers, m)

	return nil
}

// write the pages at the output directory. Nothing is written without an output directory.
func (c Client) write(entries []service.Entry) error {
	if c.Output == "" {
		return nil
	}
	if err := os.MkdirAll(c.Output, 0o755); err != nil {
		return fmt.Errorf("fail to create the output directory: %w", err)
	}

	owners := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := c.pageName(entry)
		if owner, ok := owners[name]; ok {
			return fmt.Errorf(
				"the files '%s' and '%s' have the same slug '%s'", c.relativePath(owner), c.relativePath(entry.Path), name,
			)
		}
		owners[name] = entry.Path

		path := filepath.Join(c.Output, name+".html")
		if err := os.WriteFile(path, entry.Page, 0o644); err != nil { // nolint: gosec
			return fmt.Errorf("fail to write the file '%s': %w", path, err)
		}
		c.Logger.Debug().Str("path", path).Str("source", entry.Path).Msg("page written")
	}
	return nil
}

func (Client) pageName(entry service.Entry) string {
	if name := slug.Make(entry.Slug); name != "" {
		return name
	}
	base := filepath.Base(entry.Path)
	if name := slug.Make(strings.TrimSuffix(base, filepath.Ext(base))); name != "" {
		return name
	}
	return "index"
}

func (c Client) output(entries []service.Entry) bool {
	sort.Sort(serviceEntrySort(entries))

	var result bool
	for _, entry := range entries {
		if !entry.HasFindings() {
			continue
		}
		if !result {
			result = true
		}

		fmt.Print(aurora.Bold(c.relativePath(entry.Path)))
		for _, fallback := range entry.Fallbacks {
			fmt.Printf(
				"\n%s %s %s", aurora.Bold(aurora.Gray(24, "-")), aurora.Yellow(fallback.Type), fallback.Message(),
			)
		}
		for _, heading := range entry.MissingAnchors {
			fmt.Printf("\n%s %s #%s", aurora.Bold(aurora.Gray(24, "-")), aurora.Red("missing anchor"), heading.ID)
		}
		for _, warning := range entry.Warnings {
			fmt.Printf("\n%s %s %s", aurora.Bold(aurora.Gray(24, "-")), aurora.Magenta("warning"), warning)
		}
		fmt.Printf("\n\n")
	}

	fmt.Printf("%d documents rendered\n", aurora.Bold(len(entries)))
	return result
}

func (c Client) relativePath(path string) string {
	dirPath := c.Path
	if !strings.HasSuffix(dirPath, "/") {
		dirPath += "/"
	}
	return strings.TrimPrefix(path, dirPath)
}

type serviceEntrySort []service.Entry

func (s serviceEntrySort) Len() int {
	return len(s)
}

func (s serviceEntrySort) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s serviceEntrySort) Less(i, j int) bool {
	return s[i].Path < s[j].Path
}
