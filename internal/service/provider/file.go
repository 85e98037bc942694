package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"nitro/content-render/internal/service/render"
)

// File provider is responsible for loading the JSON documents.
type File struct {
	Helpers FileHelpers
}

// Init internal state.
func (f *File) Init() error {
	// If not Helpers assigned: use default
	if f.Helpers == nil {
		f.Helpers = fileHelpersC{}
	}
	return nil
}

// Authority checks if the file provider is responsible to load the file.
func (File) Authority(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Load the document. The slug falls back to the file name when the document has no slug nor title.
func (f File) Load(ctx context.Context, path string) (render.Document, error) {
	if err := ctx.Err(); err != nil {
		return render.Document{}, err
	}

	payload, err := f.Helpers.readFile(path)
	if err != nil {
		return render.Document{}, fmt.Errorf("fail to read the file '%s': %w", path, err)
	}

	var doc render.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return render.Document{}, fmt.Errorf("fail to decode the document '%s': %w", path, err)
	}
	if doc.ID() == "" {
		doc.Slug = baseName(path)
	}
	return doc, nil
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
