// Package archive provides utilities for reading compressed tar archives.
// It supports the tar.gz and tar.xz layouts USX bundles are distributed in.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/mwatts/haiola/core/errors"
)

// Reader wraps a tar.Reader with automatic decompression handling.
type Reader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

// IsBundle reports whether path looks like a compressed USX bundle.
func IsBundle(path string) bool {
	return strings.HasSuffix(path, ".tar.gz") || strings.HasSuffix(path, ".tar.xz")
}

// NewReader creates a new archive reader for the given path.
// It automatically detects and handles .tar.gz and .tar.xz compression.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var reader io.Reader = f
	var decompressor io.Closer

	switch {
	case strings.HasSuffix(path, ".tar.xz"):
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
		decompressor = nil // xz reader doesn't need closing
	case strings.HasSuffix(path, ".tar.gz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		reader = gzr
		decompressor = gzr
	default:
		f.Close()
		return nil, errors.NewUnsupported("archive format", path)
	}

	return &Reader{
		Reader:       tar.NewReader(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the archive reader and any underlying decompressors.
func (r *Reader) Close() error {
	var errs []error
	if r.decompressor != nil {
		if err := r.decompressor.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Visitor is a callback function for iterating archive entries.
// Return true to stop iteration, false to continue.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks through all entries in the archive, calling the visitor for each.
func (r *Reader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		stop, err := visitor(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// IterateBundle opens an archive and iterates through its entries.
func IterateBundle(path string, visitor Visitor) error {
	r, err := NewReader(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Iterate(visitor)
}

// ExtractTo unpacks the regular files of the bundle at archivePath into
// destDir, preserving at most one directory level (deeper entries are
// flattened to their last two path components). Entry names that would
// escape destDir are rejected.
func ExtractTo(archivePath, destDir string) error {
	return IterateBundle(archivePath, func(header *tar.Header, content io.Reader) (bool, error) {
		if header.Typeflag != tar.TypeReg {
			return false, nil
		}

		name := sanitizeEntryName(header.Name)
		if name == "" {
			return false, fmt.Errorf("unsafe archive entry: %s", header.Name)
		}

		outPath := filepath.Join(destDir, name)
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return false, fmt.Errorf("create entry dir: %w", err)
		}

		out, err := os.Create(outPath)
		if err != nil {
			return false, fmt.Errorf("create entry file: %w", err)
		}
		if _, err := io.Copy(out, content); err != nil {
			out.Close()
			return false, fmt.Errorf("extract %s: %w", header.Name, err)
		}
		if err := out.Close(); err != nil {
			return false, err
		}
		return false, nil
	})
}

// sanitizeEntryName reduces a tar entry name to a safe relative path of at
// most two components. Returns "" for names that traverse upward.
func sanitizeEntryName(name string) string {
	name = filepath.ToSlash(name)
	if strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return ""
	}
	parts := strings.Split(name, "/")
	// Keep file name plus one enclosing directory.
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	return filepath.Join(parts...)
}
