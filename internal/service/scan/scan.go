package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"nitro/content-render/internal/service"
)

// Extensions of the content files.
var Extensions = []string{".json", ".md"}

// Scan is responsible for finding the content files to be rendered.
type Scan struct {
	Ignore []string

	regex []regexp.Regexp
}

// Init the internal state.
func (s *Scan) Init() error {
	for _, ignore := range s.Ignore {
		regex, err := regexp.Compile(ignore)
		if err != nil {
			return fmt.Errorf("fail to compile regex '%s': %w", ignore, err)
		}
		s.regex = append(s.regex, *regex)
	}
	return nil
}

// Process the directory.
func (s Scan) Process(path string) ([]service.Entry, error) {
	if err := s.isDir(path); err != nil {
		return nil, fmt.Errorf("fail to check if path is directory: %w", err)
	}

	files, err := s.listFiles(path)
	if err != nil {
		return nil, fmt.Errorf("fail to fetch the content files: %w", err)
	}
	sort.Strings(files)

	result := make([]service.Entry, 0, len(files))
	for _, file := range files {
		result = append(result, service.Entry{Path: file})
	}
	return result, nil
}

func (Scan) isDir(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("fail to check the path stat: %w", err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("'%s' expected to be a directory", path)
	}
	return nil
}

func (s Scan) listFiles(path string) ([]string, error) {
	var paths []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !s.isContent(path) || s.ignored(path) {
			return nil
		}

		paths = append(paths, path)
		return nil
	}
	if err := filepath.Walk(path, walkFn); err != nil {
		return nil, fmt.Errorf("fail to fetch the files paths: %w", err)
	}

	return paths, nil
}

func (Scan) isContent(path string) bool {
	ext := filepath.Ext(path)
	for _, extension := range Extensions {
		if strings.EqualFold(ext, extension) {
			return true
		}
	}
	return false
}

func (s Scan) ignored(path string) bool {
	for _, regex := range s.regex {
		if regex.MatchString(path) {
			return true
		}
	}
	return false
}
