// Package corpus loads raw documents from line-delimited JSON records or
// from directories of text and PDF files.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hyperjump/bunrui/internal/models"
	"go.uber.org/zap"
)

// DefaultExtensions are the file types loaded from a corpus directory.
var DefaultExtensions = []string{".txt", ".md", ".rst", ".pdf"}

// Loader reads corpus documents. It only parses storage formats; text
// cleaning and vectorization happen downstream.
type Loader struct {
	extensions []string
	logger     *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithExtensions restricts directory loading to the given file extensions.
func WithExtensions(exts []string) LoaderOption {
	return func(l *Loader) { l.extensions = exts }
}

// WithLogger sets a logger for per-file debug output.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader with default extensions.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadJSONL reads one JSON document record per line: {"id","title","content"}.
// Blank lines are skipped; a missing id gets a fresh UUID.
func (l *Loader) LoadJSONL(path string) ([]*models.DocumentInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer f.Close()

	var docs []*models.DocumentInput
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		doc := &models.DocumentInput{}
		if err := json.Unmarshal([]byte(line), doc); err != nil {
			return nil, fmt.Errorf("parse record at line %d: %w", lineNo, err)
		}
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	return docs, nil
}

// LoadDir walks root and loads every file with a configured extension.
// Walk order is lexical, so document order is reproducible. The file name
// without extension becomes the title.
func (l *Loader) LoadDir(root string) ([]*models.DocumentInput, error) {
	var docs []*models.DocumentInput
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !l.wantsExtension(path) {
			return nil
		}
		content, err := l.readFile(path)
		if err != nil {
			if l.logger != nil {
				l.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			}
			return nil
		}
		base := filepath.Base(path)
		docs = append(docs, &models.DocumentInput{
			ID:      uuid.New().String(),
			Title:   strings.TrimSuffix(base, filepath.Ext(base)),
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus dir: %w", err)
	}
	return docs, nil
}

// Load dispatches on path type: a .jsonl file loads records, a directory
// walks files, any other file loads as a single document.
func (l *Loader) Load(path string) ([]*models.DocumentInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat corpus path: %w", err)
	}
	if info.IsDir() {
		return l.LoadDir(path)
	}
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		return l.LoadJSONL(path)
	}
	content, err := l.readFile(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	return []*models.DocumentInput{{
		ID:      uuid.New().String(),
		Title:   strings.TrimSuffix(base, filepath.Ext(base)),
		Content: content,
	}}, nil
}

func (l *Loader) wantsExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range l.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (l *Loader) readFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractPDF(content)
	}
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "�"), nil
	}
	return string(content), nil
}
