package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	t.Run("with ID", func(t *testing.T) {
		err := NewNotFound("book", "GEN")
		want := "book not found: GEN"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Error("expected errors.Is(err, ErrNotFound) to be true")
		}
	})

	t.Run("without ID", func(t *testing.T) {
		err := NewNotFound("directory", "")
		want := "directory not found"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("with underlying error", func(t *testing.T) {
		inner := errors.New("stat failed")
		err := &NotFoundError{Resource: "directory", ID: "/tmp/usx", Err: inner}
		if !errors.Is(err, inner) {
			t.Error("expected unwrap to reach inner error")
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := NewValidation("loc", "unresolved range")
		want := "validation failed for loc: unresolved range"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("expected errors.Is(err, ErrInvalidInput) to be true")
		}
	})

	t.Run("without field", func(t *testing.T) {
		err := &ValidationError{Message: "bad value"}
		want := "validation failed: bad value"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestIOError(t *testing.T) {
	inner := errors.New("permission denied")

	t.Run("with path", func(t *testing.T) {
		err := NewIO("open", "/out/book.usfx", inner)
		want := "failed to open /out/book.usfx: permission denied"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, inner) {
			t.Error("expected unwrap to reach inner error")
		}
	})

	t.Run("without path", func(t *testing.T) {
		err := NewIO("flush", "", inner)
		want := "failed to flush: permission denied"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestParseError(t *testing.T) {
	t.Run("with path", func(t *testing.T) {
		err := NewParse("USX", "GEN.usx", "unexpected EOF")
		want := "failed to parse USX at GEN.usx: unexpected EOF"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Error("expected errors.Is(err, ErrInvalidInput) to be true")
		}
	})

	t.Run("without path", func(t *testing.T) {
		err := NewParse("XML", "", "bad token")
		want := "failed to parse XML: bad token"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestUnsupportedError(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		err := NewUnsupported("archive format", "only tar.gz and tar.xz are handled")
		want := "unsupported archive format: only tar.gz and tar.xz are handled"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, ErrUnsupported) {
			t.Error("expected errors.Is(err, ErrUnsupported) to be true")
		}
	})

	t.Run("without reason", func(t *testing.T) {
		err := NewUnsupported("feature", "")
		want := "unsupported feature"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if Wrap(nil, "context") != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("non-nil error", func(t *testing.T) {
		inner := errors.New("inner")
		err := Wrap(inner, "outer")
		want := "outer: inner"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, inner) {
			t.Error("wrapped error should match inner")
		}
	})
}

func TestWrapf(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if Wrapf(nil, "context %d", 1) != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})

	t.Run("formatted", func(t *testing.T) {
		inner := errors.New("inner")
		err := Wrapf(inner, "converting %s", "GEN.usx")
		want := "converting GEN.usx: inner"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})
}

func TestIsAndAs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewParse("USX", "MAT.usx", "truncated"))

	if !Is(err, ErrInvalidInput) {
		t.Error("Is should see through the wrapping")
	}

	var pe *ParseError
	if !As(err, &pe) {
		t.Fatal("As should find the ParseError")
	}
	if pe.Path != "MAT.usx" {
		t.Errorf("Path = %q, want MAT.usx", pe.Path)
	}
}
