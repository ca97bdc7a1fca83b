// Package fileutil provides file discovery helpers for conversion inputs.
package fileutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwatts/haiola/core/errors"
)

// FindSourceFiles returns the files under root whose name ends in ext,
// looking at root itself and one level of subdirectories. This tolerates
// the unpacked-bundle layout where books sit inside a single wrapper
// directory. The result is sorted so runs over the same tree are
// deterministic.
func FindSourceFiles(root, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &errors.NotFoundError{Resource: "directory", ID: root, Err: err}
	}
	if !info.IsDir() {
		return nil, errors.NewValidation("root", "not a directory: "+root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.NewIO("read directory", root, err)
	}

	var files []string
	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(root, name))
			continue
		}
		if strings.HasSuffix(strings.ToLower(name), ext) {
			files = append(files, filepath.Join(root, name))
		}
	}

	for _, sub := range subdirs {
		subEntries, err := os.ReadDir(sub)
		if err != nil {
			return nil, errors.NewIO("read directory", sub, err)
		}
		for _, entry := range subEntries {
			if entry.IsDir() {
				continue // one level only
			}
			if strings.HasSuffix(strings.ToLower(entry.Name()), ext) {
				files = append(files, filepath.Join(sub, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
