package routes

import (
	"barterhub_server/controllers"
	"barterhub_server/services"
	"barterhub_server/utils"

	"github.com/gorilla/mux"
)

// RegisterReviewRoutes sets up routes for reviews under /api/reviews
func RegisterReviewRoutes(r *mux.Router, reviewService *services.ReviewService) {
	controller := controllers.NewReviewController(reviewService)

	publicRouter := r.PathPrefix("/api/reviews").Subrouter()
	publicRouter.HandleFunc("", controller.GetReviewsReceived).Methods("GET")
	publicRouter.HandleFunc("/received", controller.GetReviewsReceived).Methods("GET")
	publicRouter.HandleFunc("/written", controller.GetReviewsWritten).Methods("GET")
	publicRouter.HandleFunc("/post/{postId}", controller.GetReviewsForPost).Methods("GET")
	publicRouter.HandleFunc("/{id}", controller.GetReviewByID).Methods("GET")

	protectedRouter := r.PathPrefix("/api/reviews").Subrouter()
	protectedRouter.Use(utils.AuthMiddleware)
	protectedRouter.HandleFunc("", controller.CreateReview).Methods("POST")
	protectedRouter.HandleFunc("/{id}", controller.DeleteReview).Methods("DELETE")
}
