package handlers

import (
	"errors"
	"net/http"

	"personal-task-manager/logging"
	"personal-task-manager/services"
)

const (
	msgDuplicateUsername  = "Username already exists!"
	msgInvalidCredentials = "Invalid credentials!"
	msgTaskNotFound       = "Task not found or access denied!"
	msgPasswordTooLong    = "Invalid input: Password must be at most 72 bytes"
	msgCommonPassword     = "Invalid input: Password is too common, please choose a stronger one"
)

// writeServiceError maps service errors onto plain-text responses. Anything unrecognised,
// ErrStorage included, is logged and reported as 500 without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDuplicateUsername):
		http.Error(w, msgDuplicateUsername, http.StatusConflict)
	case errors.Is(err, services.ErrInvalidCredentials):
		http.Error(w, msgInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, services.ErrPasswordTooLong):
		http.Error(w, msgPasswordTooLong, http.StatusBadRequest)
	case errors.Is(err, services.ErrCommonPassword):
		http.Error(w, msgCommonPassword, http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFoundOrForbidden):
		http.Error(w, msgTaskNotFound, http.StatusNotFound)
	default:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
