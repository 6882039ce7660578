package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps the store sentinels to responses. notFound names
// the missing resource.
func writeStoreError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "not allowed")
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type PostListResponse struct {
	Items      []Post     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type ReviewListResponse struct {
	Items      []Review   `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// userIDParam reads the acting user from the user_id query parameter.
func userIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalInt64 parses an optional positive integer query parameter.
func optionalInt64(r *http.Request, key string) (*int64, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return nil, false
	}
	return &v, true
}

// pageParams reads page (default 1) and limit (default defLimit, at most 100).
func pageParams(r *http.Request, defLimit int) (page, limit int, msg string) {
	page, limit = 1, defLimit
	q := r.URL.Query()
	if s := q.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return 0, 0, "page must be a positive integer"
		}
		page = v
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 100 {
			return 0, 0, "limit must be between 1 and 100"
		}
		limit = v
	}
	return page, limit, ""
}

// languageParam returns the language query parameter, or the default
// language when it is absent.
func languageParam(r *http.Request) (string, bool) {
	lang := r.URL.Query().Get("language")
	if lang == "" {
		return defaultLanguage, true
	}
	switch lang {
	case "ko", "en", "ja", "zh":
		return lang, true
	}
	return "", false
}
