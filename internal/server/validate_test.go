package server

import (
	"net/http/httptest"
	"testing"
)

func TestCheckStructMessages(t *testing.T) {
	title := "ok"
	long := string(make([]byte, 201))

	tests := []struct {
		name string
		v    any
		want string
	}{
		{"valid", &CreateCommentRequest{UserID: 1, Content: "hi"}, ""},
		{"required", &CreateCommentRequest{UserID: 1}, "content is required"},
		{"max string", &UpdatePostRequest{Title: &long}, "title must be at most 200 characters"},
		{"oneof", &PostTranslationRequest{Language: "de", TranslatedTitle: title, TranslatedContent: "c"},
			"language must be one of: ko, en, ja, zh"},
		{"url", &PostImageRequest{ImageURL: "example"}, "imageUrl must be a valid URL"},
		{"half step ok", &CreateReviewRequest{UserID: 1, LocationID: 1, Rating: 3.5}, ""},
		{"half step", &CreateReviewRequest{UserID: 1, LocationID: 1, Rating: 3.25}, "rating must be in steps of 0.5"},
		{"min number", &CreateRouteRequest{UserID: 1, StartDate: "2026-01-01", EndDate: "2026-01-01", ThemeID: 1,
			Pace: "relaxed", Travelers: -1, Language: "ko", TransportMode: "walk"}, "travelers must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkStruct(tt.v); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, limit, total int
		want               Pagination
	}{
		{1, 20, 0, Pagination{Page: 1, Limit: 20}},
		{1, 20, 20, Pagination{Page: 1, Limit: 20, Total: 20, TotalPages: 1}},
		{2, 10, 25, Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true}},
		{3, 10, 25, Pagination{Page: 3, Limit: 10, Total: 25, TotalPages: 3, HasPrev: true}},
	}
	for _, tt := range tests {
		if got := newPagination(tt.page, tt.limit, tt.total); got != tt.want {
			t.Errorf("newPagination(%d, %d, %d) = %+v, want %+v", tt.page, tt.limit, tt.total, got, tt.want)
		}
	}
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
		msg         string
	}{
		{"", 1, 20, ""},
		{"?page=3&limit=5", 3, 5, ""},
		{"?page=0", 0, 0, "page must be a positive integer"},
		{"?page=abc", 0, 0, "page must be a positive integer"},
		{"?limit=0", 0, 0, "limit must be between 1 and 100"},
		{"?limit=101", 0, 0, "limit must be between 1 and 100"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/posts"+tt.query, nil)
		page, limit, msg := pageParams(r, 20)
		if page != tt.page || limit != tt.limit || msg != tt.msg {
			t.Errorf("pageParams(%q) = %d, %d, %q, want %d, %d, %q", tt.query, page, limit, msg, tt.page, tt.limit, tt.msg)
		}
	}
}
