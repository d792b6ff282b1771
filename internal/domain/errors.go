package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrJobNotFound         = errors.New("extraction job not found")
	ErrAnalysisFailed      = errors.New("document analysis failed")
	ErrNoDocuments         = errors.New("analysis returned no documents")
	ErrPersistFailed       = errors.New("persisting extracted fields failed")
	ErrAnalyzerUnavailable = errors.New("no analyzer configured for form type")
)
