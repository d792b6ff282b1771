package export

import (
	"encoding/csv"
	"io"

	"taxextract/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting extraction rows as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteExtractions converts a batch of rows to CSV records and writes them.
func (w *Writer) WriteExtractions(rows []domain.Extraction) error {
	for i := range rows {
		if err := w.csv.Write(extractionToRow(&rows[i])); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Flush() {
	w.csv.Flush()
}

func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a BOM, the header and every row to out.
func WriteCSV(out io.Writer, rows []domain.Extraction) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteExtractions(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
