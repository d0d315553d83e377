// Package extract converts uploaded document containers into normalized
// plain text. Only the .docx container format is recognized; detection is
// by file extension, not content sniffing.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrNotDocx is returned when the uploaded bytes are not a readable
// docx container.
var ErrNotDocx = errors.New("not a docx container")

// IsSupported reports whether the filename carries a recognized document
// extension. Matching is case-insensitive and extension-based only.
func IsSupported(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".docx")
}

// Text extracts the plain text of a docx document. Paragraph-level text
// blocks are concatenated in document order, separated by line breaks,
// and the result is normalized with Normalize.
func Text(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%w: missing word/document.xml", ErrNotDocx)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("opening document part: %w", err)
	}
	defer rc.Close()

	raw, err := paragraphText(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	return Normalize(raw), nil
}

// paragraphText walks the WordprocessingML token stream and collects the
// character data of every text run, emitting a newline at each paragraph
// boundary.
func paragraphText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		sb     strings.Builder
		inText bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte(' ')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
