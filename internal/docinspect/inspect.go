// Package docinspect checks uploaded documents before they are stored.
package docinspect

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"taxextract/internal/domain"
)

// MaxPDFPages is the page limit of the analysis service for a single document.
const MaxPDFPages = 2000

var pdfMagic = []byte("%PDF-")

// DetectFileType resolves the file type from the declared content type, the
// file name extension and finally the content itself.
func DetectFileType(contentType, fileName string, head []byte) (domain.FileType, error) {
	if ct := strings.TrimSpace(strings.Split(contentType, ";")[0]); ct != "" {
		if ft, ok := domain.AllowedContentTypes[strings.ToLower(ct)]; ok {
			return ft, nil
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ft, ok := domain.AllowedExtensions[ext]; ok {
		return ft, nil
	}
	if len(head) > 0 {
		if ft, ok := domain.AllowedContentTypes[http.DetectContentType(head)]; ok {
			return ft, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, fileName)
}

// PageCount returns the number of pages of a PDF document.
func PageCount(data []byte) (int, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return 0, fmt.Errorf("%w: missing PDF header", domain.ErrInvalidInput)
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: reading PDF: %v", domain.ErrInvalidInput, err)
	}
	n := r.NumPage()
	if n == 0 {
		return 0, fmt.Errorf("%w: PDF has no pages", domain.ErrInvalidInput)
	}
	if n > MaxPDFPages {
		return n, fmt.Errorf("%w: PDF has %d pages, limit is %d", domain.ErrInvalidInput, n, MaxPDFPages)
	}
	return n, nil
}

// Inspect validates data of type ft and returns its page count. Images count
// as one page.
func Inspect(ft domain.FileType, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}
	if ft == domain.FileTypePDF {
		return PageCount(data)
	}
	return 1, nil
}
