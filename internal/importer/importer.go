// Package importer converts an existing résumé in PDF or HTML form
// into a draft markdown document. The draft follows the same
// conventions the parser reads, so the output is a starting point for
// hand-editing, not a finished résumé.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FromFile extracts text from path (dispatching on the file
// extension) and returns a draft markdown document.
func FromFile(path string) (string, error) {
	var text string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDF(path)
	case ".html", ".htm":
		f, openErr := os.Open(path)
		if openErr != nil {
			return "", fmt.Errorf("opening %s: %w", path, openErr)
		}
		defer f.Close()
		text, err = extractHTML(f)
	default:
		return "", fmt.Errorf("unsupported file type %q (want .pdf, .html or .htm)", filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}
	return Draft(text), nil
}
