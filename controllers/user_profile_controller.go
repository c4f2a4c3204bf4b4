package controllers

import (
	"log"
	"net/http"

	"barterhub_server/models"
	"barterhub_server/services"
	"barterhub_server/utils"

	"github.com/gorilla/mux"
)

// UserProfileController handles requests related to user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new instance of UserProfileController
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// GetAllProfiles handles listing every profile
func (c *UserProfileController) GetAllProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := c.UserProfileService.GetAllProfiles(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, profiles)
}

// GetProfileByID handles fetching a user profile by its subject id
func (c *UserProfileController) GetProfileByID(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	profile, err := c.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, profile)
}

// CreateProfile handles signup-completion: the profile document keyed by the
// verified token subject, with an optional avatar image.
func (c *UserProfileController) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	image, imageType, err := readEntityAndImage(r, "user", &profile)
	if err != nil {
		log.Printf("Failed to parse create-profile request: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if caller, ok := utils.Caller(r); ok && profile.Email == "" {
		profile.Email = caller.Email
	}

	created, err := c.UserProfileService.CreateProfile(r.Context(), profile, image, imageType, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusCreated, created)
}

// UpdateProfile handles owner-only profile edits
func (c *UserProfileController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	var updates models.UserProfile
	image, imageType, err := readEntityAndImage(r, "user", &updates)
	if err != nil {
		log.Printf("Failed to parse update-profile request: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := c.UserProfileService.UpdateProfile(r.Context(), userID, updates, image, imageType, utils.CallerID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSONResponse(w, http.StatusOK, updated)
}

// DeleteProfile handles owner-only profile deletion
func (c *UserProfileController) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	if err := c.UserProfileService.DeleteProfile(r.Context(), userID, utils.CallerID(r)); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
