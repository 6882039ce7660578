package server

import (
	"net/http"
	"strings"
	"testing"
)

func createTestReview(t *testing.T, h http.Handler, user, location int64, rating float64, comment string) ReviewDetail {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/reviews", map[string]any{
		"userId":     user,
		"locationId": location,
		"rating":     rating,
		"comment":    comment,
		"visitDate":  "2026-04-12",
	})
	wantStatus(t, rec, http.StatusCreated)
	return decode[ReviewDetail](t, rec)
}

func TestReviewLifecycle(t *testing.T) {
	h := newTestRouter(t, newTestStore(t), fakeSource{})

	review := createTestReview(t, h, 1, 5, 4.5, "  Bindaetteok was perfect.  ")
	if review.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5", review.Rating)
	}
	if review.Comment == nil || *review.Comment != "Bindaetteok was perfect." {
		t.Errorf("comment = %v, want it trimmed", review.Comment)
	}
	if review.Title != nil {
		t.Errorf("title = %q, want null", *review.Title)
	}
	if review.VisitDate == nil || *review.VisitDate != "2026-04-12" {
		t.Errorf("visitDate = %v, want 2026-04-12", review.VisitDate)
	}
	if len(review.Media) != 0 {
		t.Errorf("got %d media, want 0", len(review.Media))
	}

	path := "/api/reviews/" + review.ID

	rec := do(t, h, http.MethodPut, path+"?user_id=2", map[string]any{"rating": 1})
	wantError(t, rec, http.StatusForbidden, "not allowed")

	rec = do(t, h, http.MethodPut, path+"?user_id=1", map[string]any{"rating": 4.2})
	wantError(t, rec, http.StatusBadRequest, "rating must be in steps of 0.5")

	rec = do(t, h, http.MethodPut, path+"?user_id=1", map[string]any{"rating": 4, "title": "Worth the crowd"})
	wantStatus(t, rec, http.StatusOK)
	updated := decode[ReviewDetail](t, rec)
	if updated.Rating != 4 || updated.Title == nil || *updated.Title != "Worth the crowd" {
		t.Errorf("got rating %v title %v, want 4 and the new title", updated.Rating, updated.Title)
	}
	if updated.Comment == nil || *updated.Comment != "Bindaetteok was perfect." {
		t.Errorf("comment = %v, want unchanged", updated.Comment)
	}

	wantError(t, do(t, h, http.MethodDelete, path+"?user_id=2", nil), http.StatusForbidden, "not allowed")
	wantStatus(t, do(t, h, http.MethodDelete, path+"?user_id=1", nil), http.StatusOK)
	wantError(t, do(t, h, http.MethodGet, path, nil), http.StatusNotFound, "review not found")
	wantError(t, do(t, h, http.MethodDelete, path+"?user_id=1", nil), http.StatusNotFound, "review not found")
}

func TestCreateReviewValidation(t *testing.T) {
	h := newTestRouter(t, newTestStore(t), fakeSource{})

	tests := []struct {
		name   string
		body   map[string]any
		status int
		msg    string
	}{
		{"missing rating", map[string]any{"userId": 1, "locationId": 1}, http.StatusBadRequest, "rating is required"},
		{"below range", map[string]any{"userId": 1, "locationId": 1, "rating": 0.5},
			http.StatusBadRequest, "rating must be at least 1"},
		{"above range", map[string]any{"userId": 1, "locationId": 1, "rating": 5.5},
			http.StatusBadRequest, "rating must be at most 5"},
		{"not a half step", map[string]any{"userId": 1, "locationId": 1, "rating": 3.7},
			http.StatusBadRequest, "rating must be in steps of 0.5"},
		{"long title", map[string]any{"userId": 1, "locationId": 1, "rating": 3, "title": strings.Repeat("x", 201)},
			http.StatusBadRequest, "title must be at most 200 characters"},
		{"bad visit date", map[string]any{"userId": 1, "locationId": 1, "rating": 3, "visitDate": "yesterday"},
			http.StatusBadRequest, "visitDate must be a date in YYYY-MM-DD format"},
		{"unknown user", map[string]any{"userId": 99, "locationId": 1, "rating": 3},
			http.StatusNotFound, "user not found"},
		{"unknown location", map[string]any{"userId": 1, "locationId": 999, "rating": 3},
			http.StatusNotFound, "location not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, do(t, h, http.MethodPost, "/api/reviews", tt.body), tt.status, tt.msg)
		})
	}
}

func TestLocationReviewsAndStats(t *testing.T) {
	h := newTestRouter(t, newTestStore(t), fakeSource{})

	r1 := createTestReview(t, h, 1, 5, 4.5, "Great food")
	r2 := createTestReview(t, h, 2, 5, 3, "Too crowded")
	r3 := createTestReview(t, h, 3, 5, 5, "Best market in Seoul")
	createTestReview(t, h, 1, 6, 2, "Different place")

	wantStatus(t, do(t, h, http.MethodPost, "/api/reviews/"+r1.ID+"/like?user_id=2", nil), http.StatusOK)
	wantStatus(t, do(t, h, http.MethodPost, "/api/reviews/"+r1.ID+"/like?user_id=3", nil), http.StatusOK)
	wantStatus(t, do(t, h, http.MethodPost, "/api/reviews/"+r3.ID+"/like?user_id=1", nil), http.StatusOK)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"latest", "", []string{r3.ID, r2.ID, r1.ID}},
		{"rating high", "?sort_by=rating_high", []string{r3.ID, r1.ID, r2.ID}},
		{"rating low", "?sort_by=rating_low", []string{r2.ID, r1.ID, r3.ID}},
		{"likes", "?sort_by=likes", []string{r1.ID, r3.ID, r2.ID}},
		{"min rating", "?min_rating=4", []string{r3.ID, r1.ID}},
		{"page", "?limit=1&page=2", []string{r2.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/locations/5/reviews"+tt.query, nil)
			wantStatus(t, rec, http.StatusOK)
			resp := decode[ReviewListResponse](t, rec)

			got := make([]string, len(resp.Items))
			for i, r := range resp.Items {
				got[i] = r.ID
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	rec := do(t, h, http.MethodGet, "/api/locations/5/stats", nil)
	wantStatus(t, rec, http.StatusOK)
	st := decode[LocationStats](t, rec)

	if st.TotalReviews != 3 || st.PositiveReviews != 2 || st.TotalLikes != 3 {
		t.Errorf("stats = %+v, want 3 reviews, 2 positive, 3 likes", st)
	}
	if st.AverageRating == nil || *st.AverageRating != 4.17 {
		t.Errorf("averageRating = %v, want 4.17", st.AverageRating)
	}
	wantDist := []RatingBucket{{5, 1}, {4.5, 1}, {3, 1}}
	if len(st.RatingDistribution) != len(wantDist) {
		t.Fatalf("distribution = %+v, want %+v", st.RatingDistribution, wantDist)
	}
	for i, b := range wantDist {
		if st.RatingDistribution[i] != b {
			t.Errorf("bucket %d = %+v, want %+v", i, st.RatingDistribution[i], b)
		}
	}

	wantStatus(t, do(t, h, http.MethodDelete, "/api/reviews/"+r2.ID+"?user_id=2", nil), http.StatusOK)
	rec = do(t, h, http.MethodGet, "/api/locations/5/stats", nil)
	if st := decode[LocationStats](t, rec); st.TotalReviews != 2 || *st.AverageRating != 4.75 {
		t.Errorf("after delete: total %d avg %v, want 2 and 4.75", st.TotalReviews, *st.AverageRating)
	}

	rec = do(t, h, http.MethodGet, "/api/locations/12/stats", nil)
	wantStatus(t, rec, http.StatusOK)
	if st := decode[LocationStats](t, rec); st.TotalReviews != 0 || st.AverageRating != nil || len(st.RatingDistribution) != 0 {
		t.Errorf("empty location stats = %+v, want zero values", st)
	}

	wantError(t, do(t, h, http.MethodGet, "/api/locations/999/stats", nil), http.StatusNotFound, "location not found")
	wantError(t, do(t, h, http.MethodGet, "/api/locations/999/reviews", nil), http.StatusNotFound, "location not found")
	wantError(t, do(t, h, http.MethodGet, "/api/locations/x/reviews", nil), http.StatusBadRequest, "invalid location id")
	wantError(t, do(t, h, http.MethodGet, "/api/locations/5/reviews?sort_by=best", nil),
		http.StatusBadRequest, "sort_by must be one of: latest, rating_high, rating_low, likes")
	wantError(t, do(t, h, http.MethodGet, "/api/locations/5/reviews?min_rating=9", nil),
		http.StatusBadRequest, "min_rating must be between 1 and 5")

	rec = do(t, h, http.MethodGet, "/api/users/1/reviews", nil)
	wantStatus(t, rec, http.StatusOK)
	mine := decode[ReviewListResponse](t, rec)
	if mine.Pagination.Total != 2 || mine.Pagination.Limit != 10 {
		t.Errorf("user reviews pagination = %+v, want total 2 limit 10", mine.Pagination)
	}
	wantError(t, do(t, h, http.MethodGet, "/api/users/99/reviews", nil), http.StatusNotFound, "user not found")
}

func TestReviewLikes(t *testing.T) {
	h := newTestRouter(t, newTestStore(t), fakeSource{})
	path := "/api/reviews/" + createTestReview(t, h, 1, 9, 5, "View at sunset").ID

	wantStatus(t, do(t, h, http.MethodPost, path+"/like?user_id=2", nil), http.StatusOK)
	wantError(t, do(t, h, http.MethodPost, path+"/like?user_id=2", nil), http.StatusConflict, "review already liked")
	wantError(t, do(t, h, http.MethodPost, path+"/like", nil), http.StatusBadRequest, "user_id query parameter is required")
	wantError(t, do(t, h, http.MethodPost, "/api/reviews/missing/like?user_id=2", nil), http.StatusNotFound, "review not found")

	rec := do(t, h, http.MethodGet, path, nil)
	if got := decode[ReviewDetail](t, rec).TotalLikes; got != 1 {
		t.Errorf("totalLikes = %d, want 1", got)
	}

	wantStatus(t, do(t, h, http.MethodDelete, path+"/like?user_id=2", nil), http.StatusOK)
	wantError(t, do(t, h, http.MethodDelete, path+"/like?user_id=2", nil), http.StatusNotFound, "like not found")
}

func TestReviewMedia(t *testing.T) {
	h := newTestRouter(t, newTestStore(t), fakeSource{})
	path := "/api/reviews/" + createTestReview(t, h, 1, 11, 4, "Picnic by the river").ID

	add := func(body map[string]any) ReviewMedia {
		t.Helper()
		rec := do(t, h, http.MethodPost, path+"/media?user_id=1", body)
		wantStatus(t, rec, http.StatusCreated)
		return decode[ReviewMedia](t, rec)
	}

	photo := add(map[string]any{"mediaType": "photo", "mediaUrl": "https://cdn.example.com/p1.jpg", "fileSizeBytes": 204800})
	video := add(map[string]any{
		"mediaType":    "video",
		"mediaUrl":     "https://cdn.example.com/v1.mp4",
		"thumbnailUrl": "https://cdn.example.com/v1.jpg",
	})
	if photo.MediaOrder != 0 || video.MediaOrder != 1 {
		t.Errorf("orders = %d, %d, want 0, 1", photo.MediaOrder, video.MediaOrder)
	}

	rec := do(t, h, http.MethodGet, path, nil)
	review := decode[ReviewDetail](t, rec)
	if review.TotalMedia != 2 || review.PhotoCount != 1 || review.VideoCount != 1 {
		t.Errorf("counts = %d total %d photo %d video, want 2 1 1", review.TotalMedia, review.PhotoCount, review.VideoCount)
	}
	if len(review.Media) != 2 || review.Media[0].ID != photo.ID || review.Media[1].ID != video.ID {
		t.Errorf("media = %+v, want photo then video", review.Media)
	}
	if review.Media[0].FileSizeBytes == nil || *review.Media[0].FileSizeBytes != 204800 {
		t.Errorf("fileSizeBytes = %v, want 204800", review.Media[0].FileSizeBytes)
	}

	rec = do(t, h, http.MethodPost, path+"/media?user_id=1", map[string]any{"mediaType": "audio", "mediaUrl": "https://cdn.example.com/a.mp3"})
	wantError(t, rec, http.StatusBadRequest, "mediaType must be one of: photo, video")

	rec = do(t, h, http.MethodPost, path+"/media?user_id=2", map[string]any{"mediaType": "photo", "mediaUrl": "https://cdn.example.com/p2.jpg"})
	wantError(t, rec, http.StatusForbidden, "not allowed")

	wantError(t, do(t, h, http.MethodDelete, path+"/media/"+photo.ID+"?user_id=2", nil), http.StatusForbidden, "not allowed")
	wantStatus(t, do(t, h, http.MethodDelete, path+"/media/"+photo.ID+"?user_id=1", nil), http.StatusOK)
	wantError(t, do(t, h, http.MethodDelete, path+"/media/"+photo.ID+"?user_id=1", nil), http.StatusNotFound, "media not found")
}

func TestReviewTranslations(t *testing.T) {
	h := newTestRouter(t, newTestStore(t), fakeSource{})
	path := "/api/reviews/" + createTestReview(t, h, 2, 1, 5, "경복궁 야간개장 최고").ID

	rec := do(t, h, http.MethodPost, path+"/translations", map[string]any{
		"language":          "en",
		"translatedComment": "The night opening of Gyeongbokgung is the best",
	})
	wantStatus(t, rec, http.StatusOK)
	tr := decode[ReviewTranslation](t, rec)
	if tr.TranslatedTitle != nil || tr.Engine != defaultTranslationEngine {
		t.Errorf("translation = %+v, want null title and default engine", tr)
	}

	rec = do(t, h, http.MethodGet, path+"?language=en", nil)
	if got := decode[ReviewDetail](t, rec).TranslatedComment; got != "The night opening of Gyeongbokgung is the best" {
		t.Errorf("translatedComment = %q", got)
	}

	rec = do(t, h, http.MethodGet, path+"/translations", nil)
	wantStatus(t, rec, http.StatusOK)
	if list := decode[ReviewTranslationListResponse](t, rec).Translations; len(list) != 1 || list[0].Language != "en" {
		t.Errorf("translations = %+v, want one en entry", list)
	}

	rec = do(t, h, http.MethodPost, path+"/translations", map[string]any{"language": "en"})
	wantError(t, rec, http.StatusBadRequest, "translatedComment is required")

	wantError(t, do(t, h, http.MethodGet, "/api/reviews/missing/translations", nil), http.StatusNotFound, "review not found")
}
