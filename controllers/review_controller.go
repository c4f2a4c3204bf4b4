package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"barterhub_server/models"
	"barterhub_server/services"
	"barterhub_server/utils"

	"github.com/gorilla/mux"
)

// ReviewController handles requests related to reviews
type ReviewController struct {
	ReviewService *services.ReviewService
}

// NewReviewController creates a new instance of ReviewController
func NewReviewController(reviewService *services.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// GetReviewsReceived lists reviews received by a user (?toUserId=)
func (c *ReviewController) GetReviewsReceived(w http.ResponseWriter, r *http.Request) {
	toUserID := r.URL.Query().Get("toUserId")
	if toUserID == "" {
		http.Error(w, "toUserId query parameter is required", http.StatusBadRequest)
		return
	}

	reviews, err := c.ReviewService.GetReviewsForUser(r.Context(), toUserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, reviews)
}

// GetReviewsWritten lists reviews written by a user (?fromUserId=)
func (c *ReviewController) GetReviewsWritten(w http.ResponseWriter, r *http.Request) {
	fromUserID := r.URL.Query().Get("fromUserId")
	if fromUserID == "" {
		http.Error(w, "fromUserId query parameter is required", http.StatusBadRequest)
		return
	}

	reviews, err := c.ReviewService.GetReviewsByAuthor(r.Context(), fromUserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, reviews)
}

// GetReviewsForPost lists reviews tied to a barter post
func (c *ReviewController) GetReviewsForPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	reviews, err := c.ReviewService.GetReviewsForPost(r.Context(), postID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, reviews)
}

// GetReviewByID fetches a single review
func (c *ReviewController) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	reviewID := mux.Vars(r)["id"]

	review, err := c.ReviewService.GetReviewByID(r.Context(), reviewID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, review)
}

// CreateReview handles review creation; the reviewer is always the caller
func (c *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		log.Printf("Failed to decode review payload: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := c.ReviewService.CreateReview(r.Context(), review, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusCreated, created)
}

// DeleteReview handles author-only review deletion
func (c *ReviewController) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := mux.Vars(r)["id"]

	if err := c.ReviewService.DeleteReview(r.Context(), reviewID, utils.CallerID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
