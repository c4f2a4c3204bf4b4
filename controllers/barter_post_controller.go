package controllers

import (
	"log"
	"net/http"
	"strconv"

	"barterhub_server/models"
	"barterhub_server/services"
	"barterhub_server/utils"

	"github.com/gorilla/mux"
)

// BarterPostController handles requests related to barter posts
type BarterPostController struct {
	PostService *services.BarterPostService
}

// NewBarterPostController creates a new instance of BarterPostController
func NewBarterPostController(postService *services.BarterPostService) *BarterPostController {
	return &BarterPostController{PostService: postService}
}

// GetFilteredPosts handles the post listing with filter query parameters.
func (c *BarterPostController) GetFilteredPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(query.Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}

	filter := services.PostFilter{
		UploaderID:   query.Get("uploaderId"),
		SearchTerm:   query.Get("searchTerm"),
		Tags:         query["skillCategory"],
		Location:     query.Get("location"),
		Availability: query.Get("availability"),
		Status:       query.Get("status"),
		Page:         page,
		Size:         size,
	}

	posts, err := c.PostService.GetFilteredPosts(r.Context(), filter)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, posts)
}

// GetPostByID handles fetching a single post
func (c *BarterPostController) GetPostByID(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := c.PostService.GetPostByID(r.Context(), postID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, post)
}

// GetPostForEdit returns a post to its owner for the edit screen
func (c *BarterPostController) GetPostForEdit(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := c.PostService.GetPostByIDForEdit(r.Context(), postID, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, post)
}

// CreatePost handles the multipart post+image submission
func (c *BarterPostController) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post models.BarterPost
	image, imageType, err := readEntityAndImage(r, "post", &post)
	if err != nil {
		log.Printf("Failed to parse create-post request: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := c.PostService.CreatePost(r.Context(), post, image, imageType, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusCreated, created)
}

// UpdatePost handles owner-only post updates, optionally replacing the image
func (c *BarterPostController) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	var updates models.BarterPost
	image, imageType, err := readEntityAndImage(r, "post", &updates)
	if err != nil {
		log.Printf("Failed to parse update-post request: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := c.PostService.UpdatePost(r.Context(), postID, updates, image, imageType, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, updated)
}

// DeletePost handles owner-only post deletion
func (c *BarterPostController) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := c.PostService.DeletePost(r.Context(), postID, utils.CallerID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
