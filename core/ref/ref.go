// Package ref parses dotted scripture reference targets as they appear in
// USFX ref elements, e.g. "PSA.2.7" or "MAT.5.3-12".
package ref

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Ref represents a parsed reference target.
type Ref struct {
	// Book is the canonical book code (e.g., "GEN", "PSA", "1CO").
	Book string `json:"book"`

	// Chapter is the chapter number (0 for whole-book references).
	Chapter int `json:"chapter,omitempty"`

	// Verse is the verse number (0 for whole-chapter references).
	Verse int `json:"verse,omitempty"`

	// VerseEnd is the ending verse for ranges (optional).
	VerseEnd int `json:"verse_end,omitempty"`

	// Target is the original dotted target string.
	Target string `json:"target,omitempty"`
}

// refGrammar is the participle grammar for dotted reference targets.
// Examples: "GEN", "GEN.1", "GEN.1.1", "GEN.1.1-3", "1CO.13.4-7"
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	BookPrefix string       `parser:"@Int?"`
	BookName   string       `parser:"@Ident"`
	ChapterRef *chapterPart `parser:"( \".\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type chapterPart struct {
	Chapter  int        `parser:"@Int"`
	VerseRef *versePart `parser:"( \".\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type versePart struct {
	Verse int  `parser:"@Int"`
	Range *int `parser:"( \"-\" @Int )?"`
}

// refLexer defines the lexer for dotted reference targets.
var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Z][A-Za-z]*`}, // Book codes are uppercase
	{Name: "Punct", Pattern: `[.\-]`},
})

// refParser is the participle parser for dotted reference targets.
var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
)

// ParseTarget parses a dotted reference target string.
// Supported formats:
//   - "GEN" (book only)
//   - "GEN.1" (book and chapter)
//   - "GEN.1.1" (book, chapter, and verse)
//   - "MAT.5.3-12" (verse range)
//   - "1CO.13.4" (numbered book)
func ParseTarget(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty reference target")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("invalid reference target: %q: %w", s, err)
	}

	ref := &Ref{
		Book:   parsed.BookPrefix + parsed.BookName,
		Target: s,
	}

	if parsed.ChapterRef != nil {
		ref.Chapter = parsed.ChapterRef.Chapter

		if parsed.ChapterRef.VerseRef != nil {
			ref.Verse = parsed.ChapterRef.VerseRef.Verse

			if parsed.ChapterRef.VerseRef.Range != nil {
				ref.VerseEnd = *parsed.ChapterRef.VerseRef.Range
			}
		}
	}

	return ref, nil
}

// String returns the dotted target representation of the reference.
func (r *Ref) String() string {
	if r.Target != "" {
		return r.Target
	}

	var sb strings.Builder
	sb.WriteString(r.Book)

	if r.Chapter > 0 {
		sb.WriteString(".")
		sb.WriteString(strconv.Itoa(r.Chapter))

		if r.Verse > 0 {
			sb.WriteString(".")
			sb.WriteString(strconv.Itoa(r.Verse))

			if r.VerseEnd > 0 {
				sb.WriteString("-")
				sb.WriteString(strconv.Itoa(r.VerseEnd))
			}
		}
	}

	return sb.String()
}
