package usfx

// bookContext carries the per-file transcoding state: the current
// location for diagnostics, the character-style nesting counters, and the
// malformed-footnote recovery flag. A fresh context is created for every
// input file.
type bookContext struct {
	book    string
	chapter string
	verse   string

	// Character-style depth is tracked separately for body text and for
	// the inside of the current footnote.
	charNesting     int
	noteCharNesting int

	// inFootnote selects which counter a character-style open or close
	// touches. The close side trusts this flag rather than remembering
	// which counter was incremented; see the regression test for the
	// interleaving this implies.
	inFootnote bool

	// badNoteCharClosed marks a character style inside a footnote that
	// the source declared unclosed but left physically empty. The
	// element is left open in the output and force-closed when the
	// enclosing footnote ends.
	badNoteCharClosed bool

	// refTarget is the pending cross-reference target; empty means the
	// current ref element was suppressed and its close must be too.
	refTarget string
}

func newBookContext() *bookContext {
	return &bookContext{chapter: "0", verse: "0"}
}

// openCharStyle records a non-empty character-style open in the context
// selected by the footnote flag.
func (c *bookContext) openCharStyle() {
	if c.inFootnote {
		c.noteCharNesting++
	} else {
		c.charNesting++
	}
}

// closeCharStyle records a character-style close in the context selected
// by the footnote flag. It reports whether the matching counter went
// negative, which indicates structurally corrupt input.
func (c *bookContext) closeCharStyle() bool {
	if c.inFootnote {
		c.noteCharNesting--
		return c.noteCharNesting < 0
	}
	c.charNesting--
	return c.charNesting < 0
}
