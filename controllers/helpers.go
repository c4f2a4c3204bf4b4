package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"barterhub_server/services"
)

const maxMultipartMemory = 10 << 20 // 10 MiB

// WriteJSONResponse writes a JSON payload with the given status code.
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

// WriteServiceError maps the service error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is a backend failure and stays opaque to the
// client.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Printf("Unexpected service error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// readEntityAndImage parses a multipart form carrying a JSON entity part plus
// an optional image file part, the submission shape used for posts and
// profiles.
func readEntityAndImage(r *http.Request, entityField string, out interface{}) (image []byte, imageType string, err error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, "", err
	}

	entityJSON := r.FormValue(entityField)
	if entityJSON == "" {
		return nil, "", errors.New("missing " + entityField + " form field")
	}
	if err := json.Unmarshal([]byte(entityJSON), out); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	image, err = io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return image, header.Header.Get("Content-Type"), nil
}
