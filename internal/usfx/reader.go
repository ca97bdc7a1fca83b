package usfx

import (
	"encoding/xml"
	"io"
)

// eventReader pulls parse events from one USX document. It adds the two
// primitives the transducer needs beyond plain token iteration: one-event
// lookahead and consume-until-matching-close.
type eventReader struct {
	dec    *xml.Decoder
	peeked xml.Token
	has    bool
}

func newEventReader(r io.Reader) *eventReader {
	dec := xml.NewDecoder(r)
	// XXE Protection (CWE-611): disable entity expansion.
	dec.Entity = map[string]string{}
	return &eventReader{dec: dec}
}

// Next returns the next parse event, or io.EOF at end of document.
func (r *eventReader) Next() (xml.Token, error) {
	if r.has {
		r.has = false
		tok := r.peeked
		r.peeked = nil
		return tok, nil
	}
	return r.dec.Token()
}

// Peek returns the next parse event without consuming it.
func (r *eventReader) Peek() (xml.Token, error) {
	if r.has {
		return r.peeked, nil
	}
	tok, err := r.dec.Token()
	if err != nil {
		return nil, err
	}
	// The decoder reuses its internal buffer, so the stored token must
	// survive the next read.
	r.peeked = xml.CopyToken(tok)
	r.has = true
	return r.peeked, nil
}

// AtEndElement reports whether the next event closes the current element.
// Used to detect physically empty elements, which Go's decoder reports as
// a start event immediately followed by its end event.
func (r *eventReader) AtEndElement() (bool, error) {
	tok, err := r.Peek()
	if err != nil {
		if err == io.EOF {
			return false, io.ErrUnexpectedEOF
		}
		return false, err
	}
	_, ok := tok.(xml.EndElement)
	return ok, nil
}

// ConsumeEndElement consumes the pending end event after AtEndElement
// reported true.
func (r *eventReader) ConsumeEndElement() error {
	_, err := r.Next()
	return err
}

// SkipElement consumes events until the close of the element whose start
// event was just read, discarding everything in between.
func (r *eventReader) SkipElement() error {
	depth := 1
	for depth > 0 {
		tok, err := r.Next()
		if err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}
