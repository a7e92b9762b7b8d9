package services

import "errors"

// Dashboard service errors
var (
	// Session errors
	ErrNoDataset = errors.New("no dataset uploaded")

	// Query errors
	ErrInvalidStrategy = errors.New("invalid cleaning strategy")
	ErrInvalidBins     = errors.New("bin count out of range")
	ErrInvalidRows     = errors.New("preview rows out of range")

	// Upload errors
	ErrMissingFile  = errors.New("no file in upload")
	ErrFileTooLarge = errors.New("upload exceeds size limit")
)
