package middleware

import "net/http"

// ErrorResponder renders failures as problem documents. It is implemented
// by errors.ErrorHandler.
type ErrorResponder interface {
	HandleError(w http.ResponseWriter, r *http.Request, err error)
	HandlePanic(w http.ResponseWriter, r *http.Request, recovered any)
}
