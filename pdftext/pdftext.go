// Package pdftext turns an uploaded PDF into plain text and decides whether an
// upload is a PDF at all.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

var (
	ErrBadExtension = errors.New("file must have a .pdf extension")
	ErrNotPDF       = errors.New("file content is not a PDF")
)

// CheckExtension accepts names ending in .pdf, case-insensitively.
func CheckExtension(filename string) error {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ErrBadExtension
	}
	return nil
}

// Sniff reads the head of r and returns ErrNotPDF unless it looks like a PDF.
// The reader is consumed; callers that keep the content should Seek back.
func Sniff(r io.Reader) error {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return fmt.Errorf("detect content type: %w", err)
	}
	if !mtype.Is("application/pdf") {
		return ErrNotPDF
	}
	return nil
}

// Extractor reads text from PDF files on disk.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractText returns the text of every page, one output line per line of
// text on the page, with pages joined by newlines. Pages without content
// contribute nothing. A document with no text layer yields an empty string
// and no error.
func (e *Extractor) ExtractText(ctx context.Context, path string) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("read pdf %s: %v", filepath.Base(path), r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content := pageText(p.Content().Text)
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(content)
	}
	return b.String(), nil
}

// pageText rebuilds a page from its positioned glyphs in content-stream
// order. A baseline move of more than half the font size starts a new line.
// A horizontal jump past the end of the previous glyph becomes a space.
// Glyph widths are zero for fonts without a Widths array, so glyphs are never
// reordered by X.
func pageText(glyphs []pdf.Text) string {
	var b strings.Builder
	var prev *pdf.Text
	gap := false
	for i := range glyphs {
		g := &glyphs[i]
		if strings.TrimFunc(g.S, unicode.IsControl) == "" {
			// TJ arrays end with a synthetic "\n"
			gap = true
			continue
		}

		if prev != nil {
			tolerance := math.Max(math.Max(g.FontSize, prev.FontSize)/2, 1)
			switch {
			case math.Abs(g.Y-prev.Y) > tolerance:
				b.WriteString("\n")
			case gap || g.X-(prev.X+prev.W) > tolerance/2:
				if !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(g.S, " ") {
					b.WriteString(" ")
				}
			}
		}
		b.WriteString(g.S)
		prev = g
		gap = false
	}
	return b.String()
}
