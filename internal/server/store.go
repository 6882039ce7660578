package server

import (
	"context"
	"errors"

	"github.com/seoultrip/planner/internal/planner"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")

	// ErrInvalidReference reports a region or category id with no row.
	ErrInvalidReference = errors.New("invalid reference")
)

type RoutePreference struct {
	ID            string `json:"id"`
	UserID        int64  `json:"userId"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	ThemeID       int64  `json:"themeId"`
	Pace          string `json:"pace"`
	Travelers     int    `json:"travelers"`
	Language      string `json:"language"`
	TransportMode string `json:"transportMode"`
}

type RouteActivity struct {
	ID              string   `json:"id"`
	Order           int      `json:"order"`
	Time            string   `json:"time"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	LocationID      *int64   `json:"locationId,omitempty"`
	Address         string   `json:"address,omitempty"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	DurationMinutes int      `json:"durationMinutes"`
	EstimatedCost   *float64 `json:"estimatedCost,omitempty"`
	CategoryID      *int64   `json:"categoryId,omitempty"`
}

type RouteDay struct {
	ID              string          `json:"id"`
	DayNumber       int             `json:"dayNumber"`
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	TotalDistanceKm float64         `json:"totalDistanceKm"`
	TotalCost       float64         `json:"totalCost"`
	Activities      []RouteActivity `json:"activities"`
}

type RouteDetail struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	TotalEstimatedCost float64         `json:"totalEstimatedCost"`
	Difficulty         string          `json:"difficulty"`
	ModelName          string          `json:"modelName"`
	ModelVersion       string          `json:"modelVersion"`
	IsActive           bool            `json:"isActive"`
	CreatedAt          string          `json:"createdAt"`
	Preference         RoutePreference `json:"preference"`
	Days               []RouteDay      `json:"days"`
}

type RouteSummary struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	TotalEstimatedCost float64 `json:"totalEstimatedCost"`
	Difficulty         string  `json:"difficulty"`
	ThemeID            int64   `json:"themeId"`
	StartDate          string  `json:"startDate"`
	EndDate            string  `json:"endDate"`
	DayCount           int     `json:"dayCount"`
	CreatedAt          string  `json:"createdAt"`
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func newPagination(page, limit, total int) Pagination {
	pages := (total + limit - 1) / limit
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

type Post struct {
	ID                string `json:"id"`
	UserID            int64  `json:"userId"`
	RegionID          *int64 `json:"regionId"`
	CategoryID        *int64 `json:"categoryId"`
	Title             string `json:"title"`
	Content           string `json:"content"`
	IsPublic          bool   `json:"isPublic"`
	LikeCount         int    `json:"likeCount"`
	CommentCount      int    `json:"commentCount"`
	PrimaryImage      string `json:"primaryImage,omitempty"`
	TranslatedTitle   string `json:"translatedTitle,omitempty"`
	TranslatedContent string `json:"translatedContent,omitempty"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

type PostImage struct {
	ID         string `json:"id"`
	PostID     string `json:"postId"`
	ImageURL   string `json:"imageUrl"`
	IsPrimary  bool   `json:"isPrimary"`
	UploadedAt string `json:"uploadedAt"`
}

type PostDetail struct {
	Post
	Images []PostImage `json:"images"`
}

type PostFilter struct {
	Page       int
	Limit      int
	RegionID   *int64
	CategoryID *int64
	UserID     *int64
	SortBy     string
	Search     string
	Language   string
}

type Comment struct {
	ID        string     `json:"id"`
	PostID    string     `json:"postId"`
	UserID    int64      `json:"userId"`
	ParentID  *string    `json:"parentId"`
	Content   string     `json:"content"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
	Replies   []*Comment `json:"replies"`
}

type PostTranslation struct {
	ID                string `json:"id"`
	Language          string `json:"language"`
	TranslatedTitle   string `json:"translatedTitle"`
	TranslatedContent string `json:"translatedContent"`
	Engine            string `json:"translationEngine"`
	IsAuto            bool   `json:"isAuto"`
	TranslatedAt      string `json:"translatedAt"`
}

type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID   int64  `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type Review struct {
	ID                string  `json:"id"`
	UserID            int64   `json:"userId"`
	LocationID        int64   `json:"locationId"`
	Rating            float64 `json:"rating"`
	Title             *string `json:"title"`
	Comment           *string `json:"comment"`
	VisitDate         *string `json:"visitDate"`
	TotalLikes        int     `json:"totalLikes"`
	TotalMedia        int     `json:"totalMedia"`
	PhotoCount        int     `json:"photoCount"`
	VideoCount        int     `json:"videoCount"`
	TranslatedTitle   string  `json:"translatedTitle,omitempty"`
	TranslatedComment string  `json:"translatedComment,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

type ReviewMedia struct {
	ID            string  `json:"id"`
	ReviewID      string  `json:"reviewId"`
	MediaType     string  `json:"mediaType"`
	MediaURL      string  `json:"mediaUrl"`
	ThumbnailURL  *string `json:"thumbnailUrl"`
	FileSizeBytes *int64  `json:"fileSizeBytes"`
	MediaOrder    int     `json:"mediaOrder"`
	CreatedAt     string  `json:"createdAt"`
}

type ReviewDetail struct {
	Review
	Media []ReviewMedia `json:"media"`
}

type ReviewFilter struct {
	Page      int
	Limit     int
	SortBy    string
	MinRating *float64
	Language  string
}

type ReviewTranslation struct {
	ID                string  `json:"id"`
	Language          string  `json:"language"`
	TranslatedTitle   *string `json:"translatedTitle"`
	TranslatedComment string  `json:"translatedComment"`
	Engine            string  `json:"translationEngine"`
	IsAuto            bool    `json:"isAuto"`
	TranslatedAt      string  `json:"translatedAt"`
}

type RatingBucket struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

type LocationStats struct {
	LocationID         int64          `json:"locationId"`
	TotalReviews       int            `json:"totalReviews"`
	AverageRating      *float64       `json:"averageRating"`
	PositiveReviews    int            `json:"positiveReviews"`
	TotalLikes         int            `json:"totalLikes"`
	RatingDistribution []RatingBucket `json:"ratingDistribution"`
}

type UserLookup interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type RouteStore interface {
	UserLookup

	SaveRoute(ctx context.Context, pref RoutePreference, it *planner.Itinerary) (RouteDetail, error)
	GetRoute(ctx context.Context, id string) (RouteDetail, error)
	ListUserRoutes(ctx context.Context, userID int64) ([]RouteSummary, error)
	DeactivateRoute(ctx context.Context, id string, userID int64) error
}

type BoardStore interface {
	UserLookup

	CreatePost(ctx context.Context, req CreatePostRequest) (string, error)
	GetPost(ctx context.Context, id, language string) (PostDetail, error)
	ListPosts(ctx context.Context, f PostFilter) ([]Post, int, error)
	UpdatePost(ctx context.Context, id string, userID int64, req UpdatePostRequest) error
	DeletePost(ctx context.Context, id string, userID int64) error
	LikePost(ctx context.Context, id string, userID int64) error
	UnlikePost(ctx context.Context, id string, userID int64) error

	CreateComment(ctx context.Context, postID string, req CreateCommentRequest) (Comment, error)
	ListComments(ctx context.Context, postID string) ([]*Comment, int, error)
	UpdateComment(ctx context.Context, postID, commentID string, userID int64, content string) (Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string, userID int64) error

	UpsertPostTranslation(ctx context.Context, postID string, req PostTranslationRequest) (PostTranslation, error)
	ListPostTranslations(ctx context.Context, postID string) ([]PostTranslation, error)
	AddPostImage(ctx context.Context, postID string, userID int64, req PostImageRequest) (PostImage, error)
	DeletePostImage(ctx context.Context, postID, imageID string, userID int64) error

	ListRegions(ctx context.Context, language string) ([]Region, error)
	ListCategories(ctx context.Context, language string) ([]Category, error)
}

type ReviewStore interface {
	UserLookup

	LocationExists(ctx context.Context, locationID int64) (bool, error)
	CreateReview(ctx context.Context, req CreateReviewRequest) (string, error)
	GetReview(ctx context.Context, id, language string) (ReviewDetail, error)
	ListLocationReviews(ctx context.Context, locationID int64, f ReviewFilter) ([]Review, int, error)
	ListUserReviews(ctx context.Context, userID int64, page, limit int) ([]Review, int, error)
	UpdateReview(ctx context.Context, id string, userID int64, req UpdateReviewRequest) error
	DeleteReview(ctx context.Context, id string, userID int64) error

	AddReviewMedia(ctx context.Context, reviewID string, userID int64, req ReviewMediaRequest) (ReviewMedia, error)
	DeleteReviewMedia(ctx context.Context, reviewID, mediaID string, userID int64) error
	LikeReview(ctx context.Context, id string, userID int64) error
	UnlikeReview(ctx context.Context, id string, userID int64) error
	LocationStats(ctx context.Context, locationID int64) (LocationStats, error)

	UpsertReviewTranslation(ctx context.Context, reviewID string, req ReviewTranslationRequest) (ReviewTranslation, error)
	ListReviewTranslations(ctx context.Context, reviewID string) ([]ReviewTranslation, error)
}

// Store is everything the HTTP layer persists.
type Store interface {
	RouteStore
	BoardStore
	ReviewStore
}
