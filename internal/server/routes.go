package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/seoultrip/planner/internal/metrics"
)

func addRoutes(r chi.Router, logger *slog.Logger, opts Options) {
	store := opts.Store
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Seoul Trip Planner API", "/openapi.json", "/docs"))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(opts.RateLimitPerMinute))

		// Itineraries.
		r.Post("/routes", handleCreateRoute(logger, store, opts.Catalog))
		r.Get("/routes/{routeID}", handleGetRoute(store))
		r.Delete("/routes/{routeID}", handleDeleteRoute(store))
		r.Get("/users/{userID}/routes", handleListUserRoutes(store))

		// Board.
		r.Get("/board/regions", handleListRegions(store))
		r.Get("/board/categories", handleListCategories(store))
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handleListPosts(store))
			r.Post("/", handleCreatePost(store))
			r.Route("/{postID}", func(r chi.Router) {
				r.Get("/", handleGetPost(store))
				r.Put("/", handleUpdatePost(store))
				r.Delete("/", handleDeletePost(store))
				r.Post("/like", handleLikePost(store, broker))
				r.Delete("/like", handleUnlikePost(store, broker))
				r.Get("/events", handleEvents(store, broker))
				r.Get("/ws", handleEventsWS(logger, store, broker))

				r.Get("/comments", handleListComments(store))
				r.Post("/comments", handleCreateComment(store, broker))
				r.Put("/comments/{commentID}", handleUpdateComment(store))
				r.Delete("/comments/{commentID}", handleDeleteComment(store, broker))

				r.Get("/translations", handleListPostTranslations(store))
				r.Post("/translations", handleUpsertPostTranslation(store))
				r.Post("/images", handleAddPostImage(store))
				r.Delete("/images/{imageID}", handleDeletePostImage(store))
			})
		})

		// Reviews.
		r.Post("/reviews", handleCreateReview(store))
		r.Route("/reviews/{reviewID}", func(r chi.Router) {
			r.Get("/", handleGetReview(store))
			r.Put("/", handleUpdateReview(store))
			r.Delete("/", handleDeleteReview(store))
			r.Post("/like", handleLikeReview(store))
			r.Delete("/like", handleUnlikeReview(store))
			r.Post("/media", handleAddReviewMedia(store))
			r.Delete("/media/{mediaID}", handleDeleteReviewMedia(store))
			r.Get("/translations", handleListReviewTranslations(store))
			r.Post("/translations", handleUpsertReviewTranslation(store))
		})
		r.Get("/locations/{locationID}/reviews", handleListLocationReviews(store))
		r.Get("/locations/{locationID}/stats", handleLocationStats(store))
		r.Get("/users/{userID}/reviews", handleListUserReviews(store))
	})
}
