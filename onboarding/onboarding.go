// Package onboarding supplies the seed documents created for a new workspace.
package onboarding

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Topics are the seed documents in creation order.
var Topics = []string{
	"Integrations & API",
	"Our Editor",
	"Getting Started",
	"What is a Workspace",
}

var ErrTopicNotFound = fmt.Errorf("onboarding topic not found: %w", fs.ErrNotExist)

// Source reads the markdown body of a seed topic.
type Source interface {
	Read(topic string) (string, error)
}

//go:embed docs/*.md
var docs embed.FS

// FS reads topics from a file system holding one "<slug>.md" file per topic.
type FS struct {
	fsys fs.FS
	dir  string
}

func NewFS(fsys fs.FS, dir string) *FS {
	return &FS{fsys: fsys, dir: dir}
}

// Embedded returns the source compiled into the binary.
func Embedded() *FS {
	return NewFS(docs, "docs")
}

func (s *FS) Read(topic string) (string, error) {
	name := Slug(topic) + ".md"
	if s.dir != "" {
		name = s.dir + "/" + name
	}

	b, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrTopicNotFound, topic)
	}
	if err != nil {
		return "", fmt.Errorf("read onboarding topic %q: %w", topic, err)
	}
	return string(b), nil
}

// Slug maps a topic title to its file name stem, e.g. "Integrations & API"
// becomes "integrations-and-api".
func Slug(topic string) string {
	fields := strings.Fields(strings.ToLower(strings.ReplaceAll(topic, "&", " and ")))
	return strings.Join(fields, "-")
}
