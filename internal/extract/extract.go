// Package extract turns uploaded resume bytes into plain text for scoring.
package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedFormat is returned when no text can be pulled from the given format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor produces resume text from an uploaded file.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

// New returns the extractor for kind ("sample" or "document").
func New(kind string) Extractor {
	if strings.EqualFold(strings.TrimSpace(kind), "document") {
		return DocumentExtractor{}
	}
	return SampleExtractor{}
}

// DocumentExtractor reads PDF and DOCX payloads.
type DocumentExtractor struct{}

// Extract implements Extractor.
func (DocumentExtractor) Extract(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch normalizeMimeType(mimeType, fileName) {
	case MimePDF:
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("extract pdf %s: %w", fileName, err)
		}
		return text, nil
	case MimeDOCX:
		text, err := extractDOCX(data)
		if err != nil {
			return "", fmt.Errorf("extract docx %s: %w", fileName, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return documentText(doc.Editable().GetContent()), nil
}

// documentText flattens WordprocessingML into lines, one per paragraph or break.
func documentText(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return strings.TrimSpace(buf.String())
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// normalizeMimeType strips parameters and falls back to the file extension
// for generic types browsers send for Office files.
func normalizeMimeType(mimeType, fileName string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "", "application/octet-stream", "application/zip":
	default:
		return clean
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".doc":
		return MimeDOC
	default:
		return clean
	}
}
