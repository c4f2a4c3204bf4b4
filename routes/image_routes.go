package routes

import (
	"barterhub_server/controllers"
	"barterhub_server/services"
	"barterhub_server/utils"

	"github.com/gorilla/mux"
)

// RegisterImageRoutes sets up the standalone media upload route.
func RegisterImageRoutes(r *mux.Router, media services.MediaStore) {
	controller := controllers.NewImageController(media)

	imageRouter := r.PathPrefix("/api/images").Subrouter()
	imageRouter.Use(utils.AuthMiddleware)
	imageRouter.HandleFunc("/upload", controller.Upload).Methods("POST")
}
