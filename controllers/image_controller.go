package controllers

import (
	"io"
	"log"
	"net/http"

	"barterhub_server/services"
)

// ImageController handles standalone media uploads
type ImageController struct {
	Media services.MediaStore
}

// NewImageController creates a new instance of ImageController
func NewImageController(media services.MediaStore) *ImageController {
	return &ImageController{Media: media}
}

// Upload relays a multipart file to the media store and returns its public URL
func (c *ImageController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Failed to read upload: %v", err)
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	url, err := c.Media.Upload(r.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusCreated, map[string]string{"url": url})
}
