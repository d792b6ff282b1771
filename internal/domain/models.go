package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldValue is one flattened field with its service-reported confidence.
// A nil Value or Confidence means the service did not report one.
type FieldValue struct {
	Value      *string  `json:"value"`
	Confidence *float64 `json:"confidence"`
}

// FieldSet holds the flattened fields of one analyzed document.
type FieldSet struct {
	Index      int                   `json:"index"`
	DocType    string                `json:"doc_type"`
	Confidence *float64              `json:"confidence"`
	Fields     map[string]FieldValue `json:"fields"`
}

// Names returns the field names in sorted order.
func (s *FieldSet) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extraction is one persisted field row.
type Extraction struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ClientID      string    `db:"client_id" json:"client_id"`
	DocURL        string    `db:"doc_url" json:"doc_url"`
	DocName       string    `db:"doc_name" json:"doc_name"`
	DocStatus     DocStatus `db:"doc_status" json:"doc_status"`
	DocType       FormType  `db:"doc_type" json:"doc_type"`
	DocumentIndex int       `db:"document_index" json:"document_index"`
	FieldName     string    `db:"field_name" json:"field_name"`
	FieldValue    *string   `db:"field_value" json:"field_value"`
	Confidence    *float64  `db:"confidence" json:"confidence"`
	AccessID      string    `db:"access_id" json:"access_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ExtractionJob is a queued request to extract a stored document.
type ExtractionJob struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ClientID      string     `db:"client_id" json:"client_id"`
	BlobName      string     `db:"blob_name" json:"blob_name"`
	FormType      FormType   `db:"form_type" json:"form_type"`
	AccessID      string     `db:"access_id" json:"access_id"`
	Status        JobStatus  `db:"status" json:"status"`
	Attempts      int        `db:"attempts" json:"attempts"`
	LastError     string     `db:"last_error" json:"last_error"`
	DocURL        string     `db:"doc_url" json:"doc_url"`
	FieldsWritten int        `db:"fields_written" json:"fields_written"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at"`
}

// StoredDocument describes an uploaded source document.
type StoredDocument struct {
	ClientID    string   `json:"client_id"`
	BlobName    string   `json:"blob_name"`
	Key         string   `json:"key"`
	FileType    FileType `json:"file_type"`
	ContentType string   `json:"content_type"`
	Size        int64    `json:"size"`
	PageCount   int      `json:"page_count"`
	Location    string   `json:"location"`
}

// ValidKeySegment reports whether s can be used as one segment of an object
// key: non-empty, no path separators, not a relative path element.
func ValidKeySegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// ObjectKey returns the storage key of a client's document.
func ObjectKey(clientID, blobName string) string {
	return clientID + "/" + blobName
}
