package usfx

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/mwatts/haiola/core/errors"
	"github.com/mwatts/haiola/internal/books"
	"github.com/mwatts/haiola/internal/logging"
)

// attrValue returns the named attribute of a start element, or "".
func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// splitStyleLevel splits a paragraph style into its base code and an
// optional trailing numeric level ("mt2" -> "mt", "2"; "p" -> "p", "").
func splitStyleLevel(style string) (sfm, level string) {
	if style == "" {
		return "", ""
	}
	last := style[len(style)-1]
	if last >= '0' && last <= '9' {
		return style[:len(style)-1], string(last)
	}
	return style, ""
}

// transduce drives one USX parse-event stream to completion, emitting
// sink operations for each event. It returns nil when the file was fully
// processed or skipped as a duplicate; any error is a file-level failure.
func (r *Run) transduce(src *eventReader, path string) error {
	ctx := newBookContext()

	for {
		tok, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.NewParse("USX", path, err.Error())
		}

		switch t := tok.(type) {
		case xml.StartElement:
			skipFile, err := r.handleStart(src, ctx, path, t)
			if err != nil {
				return err
			}
			if skipFile {
				return nil
			}
		case xml.EndElement:
			r.handleEnd(ctx, t.Name.Local)
		case xml.CharData:
			// Text and whitespace pass through verbatim; the sink
			// owns escaping.
			r.sink.WriteString(string(t))
		}

		if err := r.sink.Err(); err != nil {
			return errors.NewIO("write USFX", path, err)
		}
	}
}

// handleStart dispatches one element-start event. It returns skipFile
// when the remainder of the file must be skipped (duplicate book).
func (r *Run) handleStart(src *eventReader, ctx *bookContext, path string, el xml.StartElement) (skipFile bool, err error) {
	empty, err := src.AtEndElement()
	if err != nil {
		return false, errors.NewParse("USX", path, err.Error())
	}

	w := r.sink
	// closeEmpty controls whether a physically empty element gets its
	// immediate close in the output; rules that emit nothing or defer
	// their close switch it off.
	closeEmpty := true

	switch el.Name.Local {
	case "usx", "usfm":
		// Root container: no output.
		closeEmpty = false

	case "book":
		code := attrValue(el, "code")
		if r.seen[code] {
			logging.DuplicateBook(code, path)
			return true, nil
		}
		r.seen[code] = true
		if !books.IsKnown(code) {
			logging.Warn("unknown book code", "book", code, "path", path)
		}
		w.WriteStartElement("book")
		w.WriteAttributeString("id", code)
		w.WriteStartElement("id")
		w.WriteAttributeString("id", code)
		ctx.book = code
		ctx.chapter = "0"
		ctx.verse = "0"

	case "chapter":
		w.WriteStartElement(attrValue(el, "style"))
		w.WriteAttributeString("id", attrValue(el, "number"))
		ctx.chapter = attrValue(el, "number")
		ctx.verse = "0"

	case "verse":
		// Commas and hyphens are both accepted range separators in
		// USX; USFX uses hyphens only.
		num := strings.ReplaceAll(attrValue(el, "number"), ",", "-")
		w.WriteStartElement(attrValue(el, "style"))
		w.WriteAttributeString("id", num)
		ctx.verse = num

	case "note":
		style := attrValue(el, "style")
		w.WriteStartElement(style)
		w.WriteAttributeString("caller", attrValue(el, "caller"))
		w.WriteAttributeString("style", style)
		ctx.inFootnote = true
		ctx.badNoteCharClosed = false

	case "char":
		style := attrValue(el, "style")
		w.WriteStartElement(style)
		if !empty {
			ctx.openCharStyle()
		} else if attrValue(el, "closed") == "false" {
			// Declared unclosed but physically empty: leave the
			// element open and force-close it when the enclosing
			// footnote ends.
			ctx.badNoteCharClosed = true
			closeEmpty = false
			logging.Anomaly(ctx.book, ctx.chapter, ctx.verse,
				"empty character style marked unclosed", "style", style)
		}

	case "table":
		w.WriteStartElement("table")

	case "row", "cell":
		w.WriteStartElement(attrValue(el, "style"))

	case "para":
		sfm, level := splitStyleLevel(attrValue(el, "style"))
		switch sfm {
		case "h":
			w.WriteStartElement("h")
		case "toc":
			if level == "" {
				level = "1"
			}
			w.WriteStartElement("toc")
			w.WriteAttributeString("level", level)
		case "p", "q", "d", "s", "mt":
			w.WriteStartElement(sfm)
			if level != "" {
				w.WriteAttributeString("level", level)
			}
		case "restore":
			// Deprecated editorial metadata with no publishing
			// value; drop the element and everything inside it.
			closeEmpty = false
			if !empty {
				if err := src.SkipElement(); err != nil {
					return false, errors.NewParse("USX", path, err.Error())
				}
				return false, nil
			}
		default:
			w.WriteStartElement("p")
			w.WriteAttributeString("sfm", sfm)
			if level != "" {
				w.WriteAttributeString("level", level)
			}
		}

	case "figure":
		if err := r.writeFigure(src, ctx, el, empty); err != nil {
			return false, errors.NewParse("USX", path, err.Error())
		}

	case "optbreak":
		w.WriteStartElement("optionalLineBreak")
		w.WriteEndElement()
		closeEmpty = false

	case "ref":
		tgt := makeDottedRef(attrValue(el, "loc"))
		if validRefTarget(tgt) {
			ctx.refTarget = tgt
			w.WriteStartElement("ref")
			w.WriteAttributeString("tgt", tgt)
		} else {
			// Suppressed entirely: neither open nor close.
			ctx.refTarget = ""
			closeEmpty = false
		}

	default:
		logging.Anomaly(ctx.book, ctx.chapter, ctx.verse,
			"unrecognized USX element", "element", el.Name.Local)
		closeEmpty = false
	}

	if empty {
		if err := src.ConsumeEndElement(); err != nil {
			return false, errors.NewParse("USX", path, err.Error())
		}
		if closeEmpty {
			w.WriteEndElement()
		}
	}
	return false, nil
}

// writeFigure emits a figure element with its fixed sub-elements taken
// from the source attributes, then resolves the caption by looking at
// exactly one following event.
func (r *Run) writeFigure(src *eventReader, ctx *bookContext, el xml.StartElement, empty bool) error {
	w := r.sink
	w.WriteStartElement(attrValue(el, "style"))
	w.WriteElementString("description", attrValue(el, "desc"))
	w.WriteElementString("catalog", attrValue(el, "file"))
	w.WriteElementString("size", attrValue(el, "size"))
	w.WriteElementString("location", attrValue(el, "loc"))
	w.WriteElementString("copyright", attrValue(el, "copy"))
	w.WriteElementString("reference", attrValue(el, "ref"))

	if empty {
		// The shared empty handling closes the figure element.
		return nil
	}

	tok, err := src.Peek()
	if err != nil {
		return err
	}
	switch t := tok.(type) {
	case xml.CharData:
		if _, err := src.Next(); err != nil { // consume the peeked text
			return err
		}
		w.WriteElementString("caption", string(t))
	case xml.EndElement:
		// The figure's own close; the main loop emits it.
	default:
		logging.Anomaly(ctx.book, ctx.chapter, ctx.verse,
			"unexpected node inside figure element")
	}
	return nil
}

// handleEnd dispatches one element-end event.
func (r *Run) handleEnd(ctx *bookContext, name string) {
	w := r.sink

	switch name {
	case "ref":
		if ctx.refTarget != "" {
			w.WriteEndElement()
		}
		ctx.refTarget = ""

	case "char":
		if ctx.closeCharStyle() {
			logging.Anomaly(ctx.book, ctx.chapter, ctx.verse,
				"character style nesting underflow")
		}
		w.WriteEndElement()

	case "note":
		if ctx.badNoteCharClosed {
			// Close the character style left open by the anomaly
			// before closing the footnote itself.
			w.WriteEndElement()
			ctx.badNoteCharClosed = false
		}
		w.WriteEndElement()
		ctx.inFootnote = false

	default:
		// Plain close, including the root container close that ends
		// the book element. Never close past the run's document root.
		if w.Depth() > 1 {
			w.WriteEndElement()
		}
	}
}
