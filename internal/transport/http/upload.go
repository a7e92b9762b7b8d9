package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	apperrors "solardash/internal/errors"
	"solardash/internal/middleware"
	"solardash/internal/services"
	v1 "solardash/pkg/contracts/api/v1"
)

const (
	// UploadField is the multipart field carrying the file
	UploadField = "file"

	// multipartOverhead allows for boundaries and headers around the file
	multipartOverhead = 64 << 10
	// multipartMemory is kept in memory before spilling to temp files
	multipartMemory = 8 << 20
)

// readUpload extracts the uploaded file from a multipart request. The body is
// capped at maxBytes plus the multipart framing. The caller closes the file.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64, validator *middleware.Validator) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, err
		}
		return nil, nil, apperrors.InvalidRequestWithError(err)
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, services.ErrMissingFile
		}
		return nil, nil, apperrors.InvalidRequestWithError(err)
	}

	if err := validator.ValidateStruct(v1.UploadRequest{
		Filename: header.Filename,
		Size:     header.Size,
	}); err != nil {
		file.Close()
		return nil, nil, err
	}
	return file, header, nil
}
