package domain

// FormType identifies the tax form a document is analyzed as.
type FormType string

const (
	FormTypeW2       FormType = "W-2"
	FormType1098     FormType = "1098"
	FormType1098E    FormType = "1098-E"
	FormType1098T    FormType = "1098-T"
	FormType1099INT  FormType = "1099-INT"
	FormType1099DIV  FormType = "1099-DIV"
	FormType1099MISC FormType = "1099-MISC"
	FormType1099NEC  FormType = "1099-NEC"
	FormType1040     FormType = "1040"
	FormTypeK1_1065  FormType = "K1-1065"
)

// DocStatus is the status recorded on every persisted field row.
type DocStatus string

const (
	DocStatusExtracted DocStatus = "extracted"
)

// JobStatus represents the lifecycle of a queued extraction.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// AnalyzerKind selects which analysis resource serves a model.
type AnalyzerKind string

const (
	AnalyzerPrebuilt AnalyzerKind = "prebuilt"
	AnalyzerCustom   AnalyzerKind = "custom"
)

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeTIFF FileType = "tiff"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/tiff":      FileTypeTIFF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"tif":  FileTypeTIFF,
	"tiff": FileTypeTIFF,
}

// ContentTypeFor returns the MIME type for a FileType.
func ContentTypeFor(ft FileType) string {
	for ct, t := range AllowedContentTypes {
		if t == ft {
			return ct
		}
	}
	return "application/octet-stream"
}
