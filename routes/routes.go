package routes

import (
	"net/http"

	"photofeed/handlers"
	"photofeed/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles every handler the router dispatches to.
type Handlers struct {
	Posts    *handlers.PostHandler
	Likes    *handlers.LikeHandler
	Comments *handlers.CommentHandler
	Views    *handlers.ViewHandler
	Users    *handlers.UserHandler
	System   *handlers.SystemHandler
}

// SetupRoutes initializes all the application routes
// The routing logic is isolated here
func SetupRoutes(h Handlers) http.Handler {
	router := mux.NewRouter()
	router.Use(monitoring.InstrumentHandler)

	// REST API
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/", h.Posts.GetServices).Methods("GET")
	api.HandleFunc("/posts/", h.Posts.GetPosts).Methods("GET")
	api.HandleFunc("/posts/{postid:[0-9]+}/", h.Posts.GetPost).Methods("GET")
	api.HandleFunc("/likes/", h.Likes.CreateLike).Methods("POST")
	api.HandleFunc("/likes/{likeid:[0-9]+}/", h.Likes.DeleteLike).Methods("DELETE")
	api.HandleFunc("/comments/", h.Comments.GetComments).Methods("GET")
	api.HandleFunc("/comments/", h.Comments.CreateComment).Methods("POST")
	api.HandleFunc("/comments/{commentid:[0-9]+}/", h.Comments.DeleteComment).Methods("DELETE")

	// Rendered pages and their forms
	router.HandleFunc("/", h.Views.Index).Methods("GET")
	router.HandleFunc("/posts/{postid:[0-9]+}/", h.Views.ShowPost).Methods("GET")
	router.HandleFunc("/users/{username}/", h.Views.ShowUser).Methods("GET")
	router.HandleFunc("/posts/", h.Views.Posts).Methods("POST")
	router.HandleFunc("/likes/", h.Views.Likes).Methods("POST")
	router.HandleFunc("/comments/", h.Views.Comments).Methods("POST")
	router.HandleFunc("/uploads/{filename}", h.Views.Upload).Methods("GET")

	// Accounts
	router.HandleFunc("/accounts/login/", h.Users.LoginPage).Methods("GET")
	router.HandleFunc("/accounts/logout/", h.Users.Logout).Methods("POST")
	router.HandleFunc("/accounts/", h.Users.Accounts).Methods("POST")
	router.HandleFunc("/following/", h.Users.Following).Methods("POST")

	// System routes
	router.HandleFunc("/health", h.System.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}
