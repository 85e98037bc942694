package provider

import "os"

// FileHelpers contains the Helpers for the document providers
type FileHelpers interface {
	readFile(string) ([]byte, error)
}

// fileHelpersC contain the implemenation of helpers for providers
type fileHelpersC struct{}

func (h fileHelpersC) readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
