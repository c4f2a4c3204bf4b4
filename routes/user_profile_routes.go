package routes

import (
	"barterhub_server/controllers"
	"barterhub_server/services"
	"barterhub_server/utils"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profiles under /api/users
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	publicRouter := r.PathPrefix("/api/users").Subrouter()
	publicRouter.HandleFunc("", controller.GetAllProfiles).Methods("GET")
	publicRouter.HandleFunc("/{id}", controller.GetProfileByID).Methods("GET")

	protectedRouter := r.PathPrefix("/api/users").Subrouter()
	protectedRouter.Use(utils.AuthMiddleware)
	protectedRouter.HandleFunc("", controller.CreateProfile).Methods("POST")
	protectedRouter.HandleFunc("/{id}", controller.UpdateProfile).Methods("PUT")
	protectedRouter.HandleFunc("/{id}", controller.DeleteProfile).Methods("DELETE")
}
