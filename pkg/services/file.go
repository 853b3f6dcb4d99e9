package services

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"portfolio/assets"
	"portfolio/pkg/models"
)

// ErrSourceNotFound is returned when a manifest source cannot be resolved.
var ErrSourceNotFound = errors.New("source not found")

// SafeJoin joins target below sub using slash separated fs.FS paths.
// It returns "" when target tries to escape sub.
func SafeJoin(sub, target string) string {
	cleanTarget := path.Clean("/" + strings.TrimSpace(target))
	if strings.Contains(target, "..") || cleanTarget == "/" {
		return ""
	}
	return path.Join(sub, strings.TrimPrefix(cleanTarget, "/"))
}

// NewSourceFS returns the filesystem article sources are read from: the
// directory at contentPath when set, the embedded assets otherwise.
func NewSourceFS(contentPath string) fs.FS {
	if strings.TrimSpace(contentPath) != "" {
		return os.DirFS(contentPath)
	}
	return assets.Content()
}

// ReadSource reads the raw text of a manifest source id.
func ReadSource(fsys fs.FS, sourceID string) (string, error) {
	p := SafeJoin(assets.ArticlesDir, sourceID)
	if p == "" {
		return "", fmt.Errorf("source %q: %w", sourceID, ErrSourceNotFound)
	}
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("source %q: %w", sourceID, ErrSourceNotFound)
		}
		return "", fmt.Errorf("read source %q: %w", sourceID, err)
	}
	return string(data), nil
}

// ReadManifest decodes and validates the manifest file.
func ReadManifest(fsys fs.FS, name string) (models.Manifest, error) {
	var m models.Manifest
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return m, fmt.Errorf("read manifest %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode manifest %s: %w", name, err)
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}
