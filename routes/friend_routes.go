package routes

import (
	"github.com/gorilla/mux"

	"reelmate_server/controllers"
	"reelmate_server/services"
)

// RegisterFriendRoutes sets up routes for friend management under /api/friends
func RegisterFriendRoutes(r *mux.Router, friendService *services.FriendService) {
	controller := controllers.NewFriendController(friendService)

	friendRouter := r.PathPrefix("/friends").Subrouter()

	friendRouter.HandleFunc("", controller.HandleAddFriend).Methods("POST")
	friendRouter.HandleFunc("", controller.HandleGetFriends).Methods("GET")
}
