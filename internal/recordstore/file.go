package recordstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mrlokans/readinglog/internal/utils"
)

const documentExt = ".json"

// FileBackend keeps one <name>.json file per document under a base directory.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the base directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the base directory.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, name+documentExt)
}

func (b *FileBackend) ReadDocument(name string) ([]byte, error) {
	data, err := os.ReadFile(b.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// WriteDocument replaces the document atomically, so readers never observe
// a partial document.
func (b *FileBackend) WriteDocument(name string, data []byte) error {
	if err := utils.WriteFileAtomic(b.path(name), data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (b *FileBackend) DocumentNames() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("list data dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != documentExt {
			continue
		}
		names = append(names, strings.TrimSuffix(name, documentExt))
	}
	sort.Strings(names)
	return names, nil
}
