// Package blueprint models the construction-blueprint file a user picks for
// analysis and the checks it must pass before it is uploaded.
//
// Selection is permissive: any readable regular file can be chosen, through
// the file browser or by dropping it on the terminal. The browser's extension
// filter is only a hint. Validate is the real gate and runs right before the
// file is submitted.
package blueprint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotAFile is returned by Open for directories and other non-regular files.
var ErrNotAFile = errors.New("not a regular file")

// Blueprint is a reference to a selected file. The content stays on disk
// until it is uploaded.
type Blueprint struct {
	Path string
	Name string
	Size int64
}

// Open resolves path to a Blueprint. A leading "~" is expanded.
func Open(path string) (Blueprint, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Blueprint{}, errors.New("path is required")
	}
	expanded, err := expandHome(path)
	if err != nil {
		return Blueprint{}, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return Blueprint{}, fmt.Errorf("resolve %q: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Blueprint{}, fmt.Errorf("stat %q: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return Blueprint{}, fmt.Errorf("%q: %w", abs, ErrNotAFile)
	}

	return Blueprint{
		Path: abs,
		Name: filepath.Base(abs),
		Size: info.Size(),
	}, nil
}

// Ext returns the lowercased file extension including the dot.
func (b Blueprint) Ext() string {
	return strings.ToLower(filepath.Ext(b.Name))
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
