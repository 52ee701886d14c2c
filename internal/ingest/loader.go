package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document is a raw text file loaded for ingestion. Name is the base name of
// the file and becomes the source label of every chunk cut from it.
type Document struct {
	Name string
	Path string
	Text string
}

// LoadDocuments walks dir and reads every file whose extension is in
// extensions (case-insensitive). Unreadable files are skipped with an error
// only when nothing at all could be read.
func LoadDocuments(dir string, extensions []string) ([]Document, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if len(allowed) > 0 && !allowed[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		docs = append(docs, Document{
			Name: filepath.Base(path),
			Path: path,
			Text: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load documents from %s: %w", dir, err)
	}
	return docs, nil
}
