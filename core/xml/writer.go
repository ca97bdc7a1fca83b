package xml

import (
	"bufio"
	"fmt"
	"io"

	"github.com/mwatts/haiola/core/encoding"
)

// Writer is a forward-only XML document writer. It exposes the small
// surface a format transducer needs: start/end element, attributes,
// text content, and the start+text+end shorthand.
//
// The writer carries a sticky error: after the first failure every
// subsequent call is a no-op returning that error, and Close reports it.
// Attributes may only be written between a start element and its first
// child or text content.
type Writer struct {
	w       *bufio.Writer
	stack   []string
	openTag bool // start tag emitted, '>' still pending
	err     error
	closed  bool
}

// NewWriter creates a Writer over w. Call WriteStartDocument before any
// elements and Close when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Err returns the writer's sticky error, if any.
func (x *Writer) Err() error {
	return x.err
}

// Depth returns the number of currently open elements.
func (x *Writer) Depth() int {
	return len(x.stack)
}

func (x *Writer) fail(err error) error {
	if x.err == nil {
		x.err = err
	}
	return x.err
}

func (x *Writer) write(s string) error {
	if x.err != nil {
		return x.err
	}
	if _, err := x.w.WriteString(s); err != nil {
		return x.fail(err)
	}
	return nil
}

// finishOpenTag emits the pending '>' of the current start tag.
func (x *Writer) finishOpenTag() error {
	if x.openTag {
		x.openTag = false
		return x.write(">")
	}
	return x.err
}

// WriteStartDocument writes the XML declaration.
func (x *Writer) WriteStartDocument() error {
	return x.write(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
}

// WriteStartElement opens a new element. The tag is left open so that
// attributes can follow.
func (x *Writer) WriteStartElement(name string) error {
	if x.err != nil {
		return x.err
	}
	if name == "" {
		return x.fail(fmt.Errorf("empty element name"))
	}
	if err := x.finishOpenTag(); err != nil {
		return err
	}
	if err := x.write("<" + name); err != nil {
		return err
	}
	x.stack = append(x.stack, name)
	x.openTag = true
	return nil
}

// WriteAttributeString writes an attribute on the current start element.
// It is an error to call it after the element has received content.
func (x *Writer) WriteAttributeString(name, value string) error {
	if x.err != nil {
		return x.err
	}
	if !x.openTag {
		return x.fail(fmt.Errorf("attribute %q written outside a start tag", name))
	}
	return x.write(" " + name + `="` + encoding.EscapeXMLAttr(value) + `"`)
}

// WriteString writes escaped text content.
func (x *Writer) WriteString(s string) error {
	if err := x.finishOpenTag(); err != nil {
		return err
	}
	return x.write(encoding.EscapeXMLText(s))
}

// WriteElementString writes a complete element with the given text content.
func (x *Writer) WriteElementString(name, value string) error {
	if err := x.WriteStartElement(name); err != nil {
		return err
	}
	if value != "" {
		if err := x.WriteString(value); err != nil {
			return err
		}
	}
	return x.WriteEndElement()
}

// WriteEndElement closes the most recently opened element. Elements with
// no content serialize in self-closing form.
func (x *Writer) WriteEndElement() error {
	if x.err != nil {
		return x.err
	}
	if len(x.stack) == 0 {
		return x.fail(fmt.Errorf("end element with no open element"))
	}
	name := x.stack[len(x.stack)-1]
	x.stack = x.stack[:len(x.stack)-1]
	if x.openTag {
		x.openTag = false
		return x.write(" />")
	}
	return x.write("</" + name + ">")
}

// Close closes any elements still open, flushes, and returns the first
// error encountered during writing. Safe to call more than once.
func (x *Writer) Close() error {
	if x.closed {
		return x.err
	}
	x.closed = true
	for len(x.stack) > 0 {
		if err := x.WriteEndElement(); err != nil {
			break
		}
	}
	if x.err == nil {
		x.write("\n")
	}
	if err := x.w.Flush(); err != nil {
		x.fail(err)
	}
	return x.err
}
