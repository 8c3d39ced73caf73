package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalDir serves ontology documents from <dir>/<domainID>.ttl.
type LocalDir struct {
	dir string
}

func NewLocalDir(dir string) *LocalDir {
	return &LocalDir{dir: dir}
}

// Fetch reads the Turtle file for domainID. Path separators in the domain id
// are rejected so lookups cannot escape the directory.
func (l *LocalDir) Fetch(_ context.Context, domainID string) (string, error) {
	if domainID == "" || strings.ContainsAny(domainID, `/\`) {
		return "", fmt.Errorf("invalid ontology domain id %q", domainID)
	}

	path := filepath.Join(l.dir, domainID+".ttl")
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading ontology file %s: %w", path, err)
	}
	return string(content), nil
}
