// Package usfx converts a directory of USX Bible books into a single
// USFX document. One Run owns the output sink and the set of book codes
// already transduced; files are processed strictly one at a time.
package usfx

import (
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/mwatts/haiola/core/errors"
	"github.com/mwatts/haiola/core/xml"
	"github.com/mwatts/haiola/internal/archive"
	"github.com/mwatts/haiola/internal/fileutil"
	"github.com/mwatts/haiola/internal/logging"
)

// SourceExt is the file extension of USX source files.
const SourceExt = ".usx"

// Options configures a conversion run.
type Options struct {
	// LanguageCode, when set, is written as a languageCode element at
	// the top of the document (Ethnologue code).
	LanguageCode string
}

// Run is one USX-to-USFX conversion: a single open output document plus
// the de-duplication set of books already written to it. The set is
// append-only for the life of the run, so the same book supplied from
// two input locations is transduced only the first time.
type Run struct {
	sink *xml.Writer
	seen map[string]bool
	id   string
}

// NewRun opens a conversion run writing the USFX document to w. The
// document root is opened immediately; Close finalizes it.
func NewRun(w io.Writer, opts Options) (*Run, error) {
	sink := xml.NewWriter(w)
	sink.WriteStartDocument()
	sink.WriteStartElement("usfx")
	sink.WriteAttributeString("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	sink.WriteAttributeString("xsi:noNamespaceSchemaLocation", "usfx.xsd")
	if opts.LanguageCode != "" {
		sink.WriteElementString("languageCode", opts.LanguageCode)
	}
	if err := sink.Err(); err != nil {
		return nil, errors.NewIO("write USFX header", "", err)
	}
	return &Run{
		sink: sink,
		seen: make(map[string]bool),
		id:   uuid.New().String(),
	}, nil
}

// ID returns the run identifier used in diagnostics.
func (r *Run) ID() string {
	return r.id
}

// Seen reports whether a book code has already been transduced in this run.
func (r *Run) Seen(code string) bool {
	return r.seen[code]
}

// ConvertPath converts one input, which may be a directory of USX files
// or a tar.gz/tar.xz bundle of them.
func (r *Run) ConvertPath(path string) error {
	if archive.IsBundle(path) {
		return r.ConvertBundle(path)
	}
	return r.ConvertDir(path)
}

// ConvertDir converts every USX file under dir (including one level of
// subdirectories). Per-file failures are reported and skipped; the
// returned error is run-level only.
func (r *Run) ConvertDir(dir string) error {
	files, err := fileutil.FindSourceFiles(dir, SourceExt)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := r.ConvertFile(f); err != nil {
			logging.FileError(f, err)
		}
		if err := r.sink.Err(); err != nil {
			// A broken sink fails the whole run.
			return errors.NewIO("write USFX", dir, err)
		}
	}
	return nil
}

// ConvertBundle unpacks a compressed USX bundle into a scratch directory
// and converts it.
func (r *Run) ConvertBundle(path string) error {
	tmp, err := os.MkdirTemp("", "usx-bundle-*")
	if err != nil {
		return errors.NewIO("create temp directory", "", err)
	}
	defer os.RemoveAll(tmp)

	if err := archive.ExtractTo(path, tmp); err != nil {
		return errors.Wrapf(err, "unpacking %s", path)
	}
	return r.ConvertDir(tmp)
}

// ConvertFile transduces one USX file into the run's document. A
// duplicate book is not an error: the file is skipped silently apart
// from a diagnostic. Errors are file-level; the sink is rewound to the
// document root so the next file starts clean (partial output already
// written stays in the document).
func (r *Run) ConvertFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer f.Close()
	defer r.unwind()

	return r.transduce(newEventReader(f), path)
}

// unwind closes any elements a failed file left open, down to the
// document root.
func (r *Run) unwind() {
	for r.sink.Err() == nil && r.sink.Depth() > 1 {
		r.sink.WriteEndElement()
	}
}

// Close finalizes the document and flushes the sink. Safe to call on
// both the success and failure paths.
func (r *Run) Close() error {
	return r.sink.Close()
}
