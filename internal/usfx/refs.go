package usfx

import "strings"

// minRefLength is the emission gate for rewritten reference targets: a
// minimal complete reference (3-letter book code, chapter, verse, two
// dots) is longer than this, so anything at or under it is degenerate
// and suppressed.
const minRefLength = 6

// makeDottedRef rewrites a USX loc string ("PSA 2:7") into USFX dot
// syntax ("PSA.2.7"). Verse-part letters are stripped. Returns "" for an
// unresolved range, one whose hyphen has an empty side ("PSA 2:-8",
// "PSA 2:7-"), which suppresses the reference element entirely.
func makeDottedRef(loc string) string {
	tgt := strings.ReplaceAll(loc, " ", ".")
	tgt = strings.ReplaceAll(tgt, ":", ".")
	tgt = strings.ReplaceAll(tgt, "a", "")
	tgt = strings.ReplaceAll(tgt, "b", "")
	if strings.Contains(tgt, ".-") || strings.HasSuffix(tgt, "-") {
		return ""
	}
	return tgt
}

// validRefTarget reports whether a rewritten target is long enough to be
// a complete dotted reference.
func validRefTarget(tgt string) bool {
	return len(tgt) > minRefLength
}
