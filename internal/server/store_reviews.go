package server

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/seoultrip/planner/internal/planner"
)

const reviewColumns = `
	r.id, r.user_id, r.location_id, r.rating, r.title, r.comment, r.visit_date,
	(SELECT COUNT(*) FROM review_likes l WHERE l.review_id = r.id) AS total_likes,
	(SELECT COUNT(*) FROM review_media m WHERE m.review_id = r.id),
	(SELECT COUNT(*) FROM review_media m WHERE m.review_id = r.id AND m.media_type = 'photo'),
	(SELECT COUNT(*) FROM review_media m WHERE m.review_id = r.id AND m.media_type = 'video'),
	COALESCE(t.translated_title, ''), COALESCE(t.translated_comment, ''),
	r.created_at, r.updated_at`

const reviewFrom = `
	FROM reviews r
	LEFT JOIN review_translations t ON t.review_id = r.id AND t.language = ?`

func scanReview(sc rowScanner) (Review, error) {
	var (
		r         Review
		title     sql.NullString
		comment   sql.NullString
		visitDate sql.NullString
	)
	err := sc.Scan(&r.ID, &r.UserID, &r.LocationID, &r.Rating, &title, &comment, &visitDate,
		&r.TotalLikes, &r.TotalMedia, &r.PhotoCount, &r.VideoCount,
		&r.TranslatedTitle, &r.TranslatedComment, &r.CreatedAt, &r.UpdatedAt)
	r.Title = nullString(title)
	r.Comment = nullString(comment)
	r.VisitDate = nullString(visitDate)
	return r, err
}

func (s *SQLiteStore) CreateReview(ctx context.Context, req CreateReviewRequest) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, user_id, location_id, rating, title, comment, visit_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, req.UserID, req.LocationID, req.Rating,
		nullable(req.Title), nullable(req.Comment), nullable(req.VisitDate))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) GetReview(ctx context.Context, id, language string) (ReviewDetail, error) {
	r, err := scanReview(s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+reviewFrom+` WHERE r.id = ? AND r.is_deleted = 0`, language, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ReviewDetail{}, ErrNotFound
	}
	if err != nil {
		return ReviewDetail{}, err
	}

	media, err := s.reviewMedia(ctx, id)
	if err != nil {
		return ReviewDetail{}, err
	}
	return ReviewDetail{Review: r, Media: media}, nil
}

func (s *SQLiteStore) reviewMedia(ctx context.Context, reviewID string) ([]ReviewMedia, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, review_id, media_type, media_url, thumbnail_url, file_size_bytes, media_order, created_at
		FROM review_media
		WHERE review_id = ?
		ORDER BY media_order, created_at, rowid
	`, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []ReviewMedia{}
	for rows.Next() {
		var (
			m     ReviewMedia
			thumb sql.NullString
			size  sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.ReviewID, &m.MediaType, &m.MediaURL, &thumb, &size,
			&m.MediaOrder, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.ThumbnailURL = nullString(thumb)
		m.FileSizeBytes = nullInt64(size)
		media = append(media, m)
	}
	return media, rows.Err()
}

var reviewOrder = map[string]string{
	"latest":      "r.created_at DESC, r.rowid DESC",
	"rating_high": "r.rating DESC, r.created_at DESC, r.rowid DESC",
	"rating_low":  "r.rating ASC, r.created_at DESC, r.rowid DESC",
	"likes":       "total_likes DESC, r.created_at DESC, r.rowid DESC",
}

func (s *SQLiteStore) listReviews(ctx context.Context, where []string, args []any, language, sortBy string, page, limit int) ([]Review, int, error) {
	whereClause := " WHERE " + strings.Join(append([]string{"r.is_deleted = 0"}, where...), " AND ")

	order, ok := reviewOrder[sortBy]
	if !ok {
		order = reviewOrder["latest"]
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews r`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append([]any{language}, args...)
	listArgs = append(listArgs, limit, (page-1)*limit)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reviewColumns+reviewFrom+whereClause+` ORDER BY `+order+` LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, r)
	}
	return reviews, total, rows.Err()
}

func (s *SQLiteStore) ListLocationReviews(ctx context.Context, locationID int64, f ReviewFilter) ([]Review, int, error) {
	where := []string{"r.location_id = ?"}
	args := []any{locationID}
	if f.MinRating != nil {
		where = append(where, "r.rating >= ?")
		args = append(args, *f.MinRating)
	}
	return s.listReviews(ctx, where, args, f.Language, f.SortBy, f.Page, f.Limit)
}

func (s *SQLiteStore) ListUserReviews(ctx context.Context, userID int64, page, limit int) ([]Review, int, error) {
	return s.listReviews(ctx, []string{"r.user_id = ?"}, []any{userID}, defaultLanguage, "latest", page, limit)
}

const reviewOwnerQuery = `SELECT user_id FROM reviews WHERE id = ? AND is_deleted = 0`

func (s *SQLiteStore) UpdateReview(ctx context.Context, id string, userID int64, req UpdateReviewRequest) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, reviewOwnerQuery, id); err != nil {
			return err
		}

		var (
			sets []string
			args []any
		)
		if req.Rating != nil {
			sets = append(sets, "rating = ?")
			args = append(args, *req.Rating)
		}
		if req.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *req.Title)
		}
		if req.Comment != nil {
			sets = append(sets, "comment = ?")
			args = append(args, *req.Comment)
		}
		if req.VisitDate != nil {
			sets = append(sets, "visit_date = ?")
			args = append(args, *req.VisitDate)
		}
		sets = append(sets, "updated_at = "+nowExpr)
		args = append(args, id)

		_, err := tx.ExecContext(ctx, `UPDATE reviews SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		return err
	})
}

func (s *SQLiteStore) DeleteReview(ctx context.Context, id string, userID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, reviewOwnerQuery, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE reviews SET is_deleted = 1, updated_at = `+nowExpr+` WHERE id = ?`, id)
		return err
	})
}

func (s *SQLiteStore) reviewExists(ctx context.Context, q queryer, id string) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM reviews WHERE id = ? AND is_deleted = 0`, id)
}

// AddReviewMedia appends a media record after the review's existing media
// unless the request fixes an order.
func (s *SQLiteStore) AddReviewMedia(ctx context.Context, reviewID string, userID int64, req ReviewMediaRequest) (ReviewMedia, error) {
	m := ReviewMedia{
		ID:            uuid.NewString(),
		ReviewID:      reviewID,
		MediaType:     req.MediaType,
		MediaURL:      req.MediaURL,
		ThumbnailURL:  req.ThumbnailURL,
		FileSizeBytes: req.FileSizeBytes,
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, reviewOwnerQuery, reviewID); err != nil {
			return err
		}
		if req.MediaOrder != nil {
			m.MediaOrder = *req.MediaOrder
		} else if err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(media_order) + 1, 0) FROM review_media WHERE review_id = ?
		`, reviewID).Scan(&m.MediaOrder); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `
			INSERT INTO review_media
				(id, review_id, media_type, media_url, thumbnail_url, file_size_bytes, media_order)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING created_at
		`, m.ID, reviewID, m.MediaType, m.MediaURL, nullable(m.ThumbnailURL),
			nullable(m.FileSizeBytes), m.MediaOrder).Scan(&m.CreatedAt)
	})
	return m, err
}

func (s *SQLiteStore) DeleteReviewMedia(ctx context.Context, reviewID, mediaID string, userID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, `
			SELECT r.user_id
			FROM reviews r
			JOIN review_media m ON m.review_id = r.id
			WHERE r.id = ? AND m.id = ? AND r.is_deleted = 0
		`, reviewID, mediaID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM review_media WHERE id = ?`, mediaID)
		return err
	})
}

func (s *SQLiteStore) LikeReview(ctx context.Context, id string, userID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.reviewExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO review_likes (review_id, user_id) VALUES (?, ?)
			ON CONFLICT (review_id, user_id) DO NOTHING
		`, id, userID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConflict
		}
		return nil
	})
}

func (s *SQLiteStore) UnlikeReview(ctx context.Context, id string, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM review_likes WHERE review_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// LocationStats aggregates the live reviews of a location. Ratings of 4.0
// and above count as positive.
func (s *SQLiteStore) LocationStats(ctx context.Context, locationID int64) (LocationStats, error) {
	ok, err := s.LocationExists(ctx, locationID)
	if err != nil {
		return LocationStats{}, err
	}
	if !ok {
		return LocationStats{}, ErrNotFound
	}

	st := LocationStats{LocationID: locationID, RatingDistribution: []RatingBucket{}}
	var avg sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(r.rating),
			COALESCE(SUM(CASE WHEN r.rating >= 4.0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM((SELECT COUNT(*) FROM review_likes l WHERE l.review_id = r.id)), 0)
		FROM reviews r
		WHERE r.location_id = ? AND r.is_deleted = 0
	`, locationID).Scan(&st.TotalReviews, &avg, &st.PositiveReviews, &st.TotalLikes)
	if err != nil {
		return LocationStats{}, err
	}
	if avg.Valid {
		v := planner.Round2(avg.Float64)
		st.AverageRating = &v
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE location_id = ? AND is_deleted = 0
		GROUP BY rating
		ORDER BY rating DESC
	`, locationID)
	if err != nil {
		return LocationStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var b RatingBucket
		if err := rows.Scan(&b.Rating, &b.Count); err != nil {
			return LocationStats{}, err
		}
		st.RatingDistribution = append(st.RatingDistribution, b)
	}
	return st, rows.Err()
}

func (s *SQLiteStore) UpsertReviewTranslation(ctx context.Context, reviewID string, req ReviewTranslationRequest) (ReviewTranslation, error) {
	tr := ReviewTranslation{
		Language:          req.Language,
		TranslatedTitle:   req.TranslatedTitle,
		TranslatedComment: req.TranslatedComment,
		Engine:            req.Engine,
		IsAuto:            req.IsAuto == nil || *req.IsAuto,
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.reviewExists(ctx, tx, reviewID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return tx.QueryRowContext(ctx, `
			INSERT INTO review_translations
				(id, review_id, language, translated_title, translated_comment, translation_engine, is_auto)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (review_id, language) DO UPDATE SET
				translated_title = excluded.translated_title,
				translated_comment = excluded.translated_comment,
				translation_engine = excluded.translation_engine,
				is_auto = excluded.is_auto,
				translated_at = `+nowExpr+`
			RETURNING id, translated_at
		`, uuid.NewString(), reviewID, tr.Language, nullable(tr.TranslatedTitle), tr.TranslatedComment,
			tr.Engine, boolInt(tr.IsAuto)).Scan(&tr.ID, &tr.TranslatedAt)
	})
	return tr, err
}

func (s *SQLiteStore) ListReviewTranslations(ctx context.Context, reviewID string) ([]ReviewTranslation, error) {
	ok, err := s.reviewExists(ctx, s.db, reviewID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, language, translated_title, translated_comment, translation_engine, is_auto, translated_at
		FROM review_translations
		WHERE review_id = ?
		ORDER BY language
	`, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	translations := []ReviewTranslation{}
	for rows.Next() {
		var (
			tr    ReviewTranslation
			title sql.NullString
		)
		if err := rows.Scan(&tr.ID, &tr.Language, &title, &tr.TranslatedComment,
			&tr.Engine, &tr.IsAuto, &tr.TranslatedAt); err != nil {
			return nil, err
		}
		tr.TranslatedTitle = nullString(title)
		translations = append(translations, tr)
	}
	return translations, rows.Err()
}
