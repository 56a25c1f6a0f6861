package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"resume-chat/internal/models"
)

const defaultPageNumber = 1

type loader func(filePath string) ([]models.Page, error)

var loaders = map[string]loader{
	".pdf":  loadPDF,
	".docx": loadDOCX,
	".pptx": loadPPTX,
	".xlsx": loadXLSX,
	".ods":  loadODS,
	".txt":  loadText,
	".md":   loadMarkdown,
}

// Supported reports whether filePath has a loader.
func Supported(filePath string) bool {
	_, ok := loaders[strings.ToLower(filepath.Ext(filePath))]
	return ok
}

// LoadFile returns the non-empty pages of one document.
func LoadFile(filePath string) ([]models.Page, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	load, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
	pages, err := load(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filePath, err)
	}
	source := filepath.Base(filePath)
	out := pages[:0]
	for _, p := range pages {
		p.Text = strings.TrimSpace(p.Text)
		if p.Text == "" {
			continue
		}
		p.Source = source
		out = append(out, p)
	}
	return out, nil
}

// LoadDir loads every supported file directly inside dir, in name order.
func LoadDir(dir string) ([]models.Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !Supported(e.Name()) {
			log.Debug().Str("file", e.Name()).Msg("Skipping unsupported file")
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var pages []models.Page
	for _, name := range names {
		p, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", name).Int("pages", len(p)).Msg("Loaded document")
		pages = append(pages, p...)
	}
	return pages, nil
}
