package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/seoultrip/planner/internal/handler/health"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type LanguageQuery struct {
	Language string `query:"language" enum:"ko,en,ja,zh" description:"Stored translation to include. Defaults to ko."`
}

type RouteParams struct {
	RouteID string `path:"routeID"`
}

type OwnedRouteParams struct {
	RouteID string `path:"routeID"`
	UserID  int64  `query:"user_id" required:"true" description:"Acting user; must own the route."`
}

type UserParams struct {
	UserID int64 `path:"userID"`
}

type UserReviewsParams struct {
	UserID int64 `path:"userID"`
	Page   int   `query:"page" minimum:"1"`
	Limit  int   `query:"limit" minimum:"1" maximum:"100" default:"10"`
}

type PostListParams struct {
	Page       int    `query:"page" minimum:"1"`
	Limit      int    `query:"limit" minimum:"1" maximum:"100" default:"20"`
	RegionID   int64  `query:"region_id"`
	CategoryID int64  `query:"category_id"`
	UserID     int64  `query:"user_id"`
	SortBy     string `query:"sort_by" enum:"latest,oldest,likes"`
	Search     string `query:"search" description:"Matches title or content."`
	Language   string `query:"language" enum:"ko,en,ja,zh"`
}

type PostParams struct {
	PostID string `path:"postID"`
}

type GetPostParams struct {
	PostParams
	LanguageQuery
}

type OwnedPostParams struct {
	PostID string `path:"postID"`
	UserID int64  `query:"user_id" required:"true" description:"Acting user; must own the post."`
}

type UpdatePostParams struct {
	OwnedPostParams
	UpdatePostRequest
}

type CreateCommentParams struct {
	PostParams
	CreateCommentRequest
}

type CommentParams struct {
	PostID    string `path:"postID"`
	CommentID string `path:"commentID"`
	UserID    int64  `query:"user_id" required:"true" description:"Acting user; must own the comment."`
}

type UpdateCommentParams struct {
	CommentParams
	UpdateCommentRequest
}

type PostTranslationParams struct {
	PostParams
	PostTranslationRequest
}

type AddPostImageParams struct {
	OwnedPostParams
	PostImageRequest
}

type PostImageParams struct {
	PostID  string `path:"postID"`
	ImageID string `path:"imageID"`
	UserID  int64  `query:"user_id" required:"true" description:"Acting user; must own the post."`
}

type ReviewParams struct {
	ReviewID string `path:"reviewID"`
}

type GetReviewParams struct {
	ReviewParams
	LanguageQuery
}

type OwnedReviewParams struct {
	ReviewID string `path:"reviewID"`
	UserID   int64  `query:"user_id" required:"true" description:"Acting user; must own the review."`
}

type UpdateReviewParams struct {
	OwnedReviewParams
	UpdateReviewRequest
}

type AddReviewMediaParams struct {
	OwnedReviewParams
	ReviewMediaRequest
}

type ReviewMediaParams struct {
	ReviewID string `path:"reviewID"`
	MediaID  string `path:"mediaID"`
	UserID   int64  `query:"user_id" required:"true" description:"Acting user; must own the review."`
}

type ReviewTranslationParams struct {
	ReviewParams
	ReviewTranslationRequest
}

type LocationParams struct {
	LocationID int64 `path:"locationID"`
}

type LocationReviewsParams struct {
	LocationID int64   `path:"locationID"`
	Page       int     `query:"page" minimum:"1"`
	Limit      int     `query:"limit" minimum:"1" maximum:"100" default:"10"`
	SortBy     string  `query:"sort_by" enum:"latest,rating_high,rating_low,likes"`
	MinRating  float64 `query:"min_rating" minimum:"1" maximum:"5"`
	Language   string  `query:"language" enum:"ko,en,ja,zh"`
}

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               any
	status                             int
	errors                             []int
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Seoul Trip Planner API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Itinerary generation plus the travel board and review backends.")

	badReq := http.StatusBadRequest
	notFound := http.StatusNotFound
	owned := []int{badReq, http.StatusForbidden, notFound}

	ops := []operation{
		// Itineraries
		{http.MethodPost, "/api/routes", "Generate itinerary",
			"Plans a multi-day itinerary from the activity catalog for the given theme and stores it.",
			CreateRouteRequest{}, RouteDetail{}, http.StatusCreated,
			[]int{badReq, notFound, http.StatusUnprocessableEntity, http.StatusBadGateway}},
		{http.MethodGet, "/api/routes/{routeID}", "Get itinerary",
			"Returns a stored itinerary with its days and activities.",
			RouteParams{}, RouteDetail{}, http.StatusOK, []int{notFound}},
		{http.MethodDelete, "/api/routes/{routeID}", "Deactivate itinerary",
			"Hides an itinerary from its owner's list.",
			OwnedRouteParams{}, StatusResponse{}, http.StatusOK, owned},
		{http.MethodGet, "/api/users/{userID}/routes", "List user itineraries",
			"Returns summaries of the user's active itineraries, newest first.",
			UserParams{}, RouteListResponse{}, http.StatusOK, []int{badReq, notFound}},

		// Board lookups
		{http.MethodGet, "/api/board/regions", "List regions", "Region names in the requested language.",
			LanguageQuery{}, RegionListResponse{}, http.StatusOK, nil},
		{http.MethodGet, "/api/board/categories", "List categories", "Category names in the requested language.",
			LanguageQuery{}, CategoryListResponse{}, http.StatusOK, nil},

		// Posts
		{http.MethodGet, "/api/posts", "List posts", "Public posts, paginated and filtered.",
			PostListParams{}, PostListResponse{}, http.StatusOK, []int{badReq}},
		{http.MethodPost, "/api/posts", "Create post", "",
			CreatePostRequest{}, PostDetail{}, http.StatusCreated, []int{badReq, notFound}},
		{http.MethodGet, "/api/posts/{postID}", "Get post", "Returns a post with its images.",
			GetPostParams{}, PostDetail{}, http.StatusOK, []int{badReq, notFound}},
		{http.MethodPut, "/api/posts/{postID}", "Update post", "Changes only the fields present in the body.",
			UpdatePostParams{}, PostDetail{}, http.StatusOK, owned},
		{http.MethodDelete, "/api/posts/{postID}", "Delete post", "Soft-deletes a post.",
			OwnedPostParams{}, StatusResponse{}, http.StatusOK, owned},
		{http.MethodPost, "/api/posts/{postID}/like", "Like post", "",
			OwnedPostParams{}, StatusResponse{}, http.StatusOK, []int{badReq, notFound, http.StatusConflict}},
		{http.MethodDelete, "/api/posts/{postID}/like", "Unlike post", "",
			OwnedPostParams{}, StatusResponse{}, http.StatusOK, []int{badReq, notFound}},

		// Comments
		{http.MethodGet, "/api/posts/{postID}/comments", "List comments",
			"Live comments as a reply tree, with the total count.",
			PostParams{}, CommentListResponse{}, http.StatusOK, []int{notFound}},
		{http.MethodPost, "/api/posts/{postID}/comments", "Create comment", "parentId makes the comment a reply.",
			CreateCommentParams{}, Comment{}, http.StatusCreated, []int{badReq, notFound}},
		{http.MethodPut, "/api/posts/{postID}/comments/{commentID}", "Update comment", "",
			UpdateCommentParams{}, Comment{}, http.StatusOK, owned},
		{http.MethodDelete, "/api/posts/{postID}/comments/{commentID}", "Delete comment", "Soft-deletes a comment.",
			CommentParams{}, StatusResponse{}, http.StatusOK, owned},

		// Post translations and images
		{http.MethodGet, "/api/posts/{postID}/translations", "List post translations", "",
			PostParams{}, PostTranslationListResponse{}, http.StatusOK, []int{notFound}},
		{http.MethodPost, "/api/posts/{postID}/translations", "Store post translation",
			"Creates or replaces the translation for one language.",
			PostTranslationParams{}, PostTranslation{}, http.StatusOK, []int{badReq, notFound}},
		{http.MethodPost, "/api/posts/{postID}/images", "Add post image",
			"A primary image replaces the current primary.",
			AddPostImageParams{}, PostImage{}, http.StatusCreated, owned},
		{http.MethodDelete, "/api/posts/{postID}/images/{imageID}", "Delete post image", "",
			PostImageParams{}, StatusResponse{}, http.StatusOK, owned},

		// Reviews
		{http.MethodPost, "/api/reviews", "Create review", "Ratings run from 1 to 5 in steps of 0.5.",
			CreateReviewRequest{}, ReviewDetail{}, http.StatusCreated, []int{badReq, notFound}},
		{http.MethodGet, "/api/reviews/{reviewID}", "Get review", "Returns a review with its media.",
			GetReviewParams{}, ReviewDetail{}, http.StatusOK, []int{badReq, notFound}},
		{http.MethodPut, "/api/reviews/{reviewID}", "Update review", "Changes only the fields present in the body.",
			UpdateReviewParams{}, ReviewDetail{}, http.StatusOK, owned},
		{http.MethodDelete, "/api/reviews/{reviewID}", "Delete review", "Soft-deletes a review.",
			OwnedReviewParams{}, StatusResponse{}, http.StatusOK, owned},
		{http.MethodPost, "/api/reviews/{reviewID}/like", "Like review", "",
			OwnedReviewParams{}, StatusResponse{}, http.StatusOK, []int{badReq, notFound, http.StatusConflict}},
		{http.MethodDelete, "/api/reviews/{reviewID}/like", "Unlike review", "",
			OwnedReviewParams{}, StatusResponse{}, http.StatusOK, []int{badReq, notFound}},
		{http.MethodPost, "/api/reviews/{reviewID}/media", "Add review media",
			"Records an uploaded photo or video by URL.",
			AddReviewMediaParams{}, ReviewMedia{}, http.StatusCreated, owned},
		{http.MethodDelete, "/api/reviews/{reviewID}/media/{mediaID}", "Delete review media", "",
			ReviewMediaParams{}, StatusResponse{}, http.StatusOK, owned},
		{http.MethodGet, "/api/reviews/{reviewID}/translations", "List review translations", "",
			ReviewParams{}, ReviewTranslationListResponse{}, http.StatusOK, []int{notFound}},
		{http.MethodPost, "/api/reviews/{reviewID}/translations", "Store review translation",
			"Creates or replaces the translation for one language.",
			ReviewTranslationParams{}, ReviewTranslation{}, http.StatusOK, []int{badReq, notFound}},
		{http.MethodGet, "/api/locations/{locationID}/reviews", "List location reviews", "",
			LocationReviewsParams{}, ReviewListResponse{}, http.StatusOK, []int{badReq, notFound}},
		{http.MethodGet, "/api/locations/{locationID}/stats", "Location review statistics",
			"Ratings of 4.0 and above count as positive.",
			LocationParams{}, LocationStats{}, http.StatusOK, []int{badReq, notFound}},
		{http.MethodGet, "/api/users/{userID}/reviews", "List user reviews", "",
			UserReviewsParams{}, ReviewListResponse{}, http.StatusOK, []int{badReq, notFound}},
	}

	for _, op := range ops {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			panic(err)
		}
		oc.SetSummary(op.summary)
		if op.description != "" {
			oc.SetDescription(op.description)
		}
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(op.status))
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		_ = r.AddOperation(oc)
	}

	// GET /api/posts/{postID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/posts/{postID}/events")
	getEvents.SetSummary("Post event stream")
	getEvents.AddReqStructure(PostParams{})
	getEvents.SetDescription("Server-Sent Events for comments and likes on a post.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getEvents.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getEvents)

	// GET /api/posts/{postID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/posts/{postID}/ws")
	getWS.SetSummary("Post event WebSocket")
	getWS.SetDescription("Upgrades to a WebSocket that receives the same events as the SSE stream, one JSON text message each.")
	getWS.AddReqStructure(PostParams{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	getWS.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getWS)

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
