package services

import "errors"

// Service layer errors
var (
	// Upload errors
	ErrEmptyUpload     = errors.New("uploaded file is empty")
	ErrUploadTooLarge  = errors.New("uploaded file exceeds the size limit")
	ErrMissingFilename = errors.New("upload has no filename")

	// Report errors
	ErrNoReportsFound = errors.New("no reports found")
	ErrReportNotFound = errors.New("report not found")
	ErrInvalidReport  = errors.New("invalid report name")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
