package routes

import (
	"barterhub_server/controllers"
	"barterhub_server/services"
	"barterhub_server/utils"

	"github.com/gorilla/mux"
)

// RegisterBarterPostRoutes sets up routes for barter posts under /api/posts.
// Listing and detail reads are public; everything else needs a bearer token.
func RegisterBarterPostRoutes(r *mux.Router, postService *services.BarterPostService) {
	controller := controllers.NewBarterPostController(postService)

	publicRouter := r.PathPrefix("/api/posts").Subrouter()
	publicRouter.HandleFunc("", controller.GetFilteredPosts).Methods("GET")
	publicRouter.HandleFunc("/{id}", controller.GetPostByID).Methods("GET")

	protectedRouter := r.PathPrefix("/api/posts").Subrouter()
	protectedRouter.Use(utils.AuthMiddleware)
	protectedRouter.HandleFunc("", controller.CreatePost).Methods("POST")
	protectedRouter.HandleFunc("/{id}/edit", controller.GetPostForEdit).Methods("GET")
	protectedRouter.HandleFunc("/{id}", controller.UpdatePost).Methods("PUT")
	protectedRouter.HandleFunc("/{id}", controller.DeletePost).Methods("DELETE")
}
