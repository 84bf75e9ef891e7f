package controllers

import (
	"Cardex/apperrors"
	"errors"
	"net/http"
)

// statusForError maps the shared error kinds onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrSelfReference),
		errors.Is(err, apperrors.ErrAlreadyExists),
		errors.Is(err, apperrors.ErrEmptyCatalog):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// warningField turns an optional partial-mirror warning into the value
// of the "warning" response field, nil when there is nothing to report.
func warningField(warning error) interface{} {
	if warning == nil {
		return nil
	}
	return warning.Error()
}
