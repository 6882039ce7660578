package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const postColumns = `
	p.id, p.user_id, p.region_id, p.category_id, p.title, p.content, p.is_public,
	(SELECT COUNT(*) FROM board_post_likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT COUNT(*) FROM board_comments c WHERE c.post_id = p.id AND c.is_deleted = 0),
	COALESCE((SELECT i.image_url FROM board_post_images i
		WHERE i.post_id = p.id AND i.is_primary = 1 ORDER BY i.uploaded_at LIMIT 1), ''),
	COALESCE(t.translated_title, ''), COALESCE(t.translated_content, ''),
	p.created_at, p.updated_at`

// postFrom joins the translation for the language bound as its only parameter.
const postFrom = `
	FROM board_posts p
	LEFT JOIN board_post_translations t ON t.post_id = p.id AND t.language = ?`

func scanPost(sc rowScanner) (Post, error) {
	var (
		p          Post
		regionID   sql.NullInt64
		categoryID sql.NullInt64
	)
	err := sc.Scan(&p.ID, &p.UserID, &regionID, &categoryID, &p.Title, &p.Content, &p.IsPublic,
		&p.LikeCount, &p.CommentCount, &p.PrimaryImage,
		&p.TranslatedTitle, &p.TranslatedContent, &p.CreatedAt, &p.UpdatedAt)
	p.RegionID = nullInt64(regionID)
	p.CategoryID = nullInt64(categoryID)
	return p, err
}

// checkPostRefs verifies the optional region and category ids.
func checkPostRefs(ctx context.Context, q queryer, regionID, categoryID *int64) error {
	if regionID != nil {
		ok, err := exists(ctx, q, `SELECT 1 FROM board_regions WHERE region_id = ?`, *regionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("region %d: %w", *regionID, ErrInvalidReference)
		}
	}
	if categoryID != nil {
		ok, err := exists(ctx, q, `SELECT 1 FROM board_categories WHERE category_id = ?`, *categoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("category %d: %w", *categoryID, ErrInvalidReference)
		}
	}
	return nil
}

func (s *SQLiteStore) CreatePost(ctx context.Context, req CreatePostRequest) (string, error) {
	id := uuid.NewString()
	isPublic := req.IsPublic == nil || *req.IsPublic
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkPostRefs(ctx, tx, req.RegionID, req.CategoryID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO board_posts (id, user_id, region_id, category_id, title, content, is_public)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, req.UserID, nullable(req.RegionID), nullable(req.CategoryID), req.Title, req.Content, boolInt(isPublic))
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) GetPost(ctx context.Context, id, language string) (PostDetail, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+postFrom+` WHERE p.id = ? AND p.is_deleted = 0`, language, id))
	if errors.Is(err, sql.ErrNoRows) {
		return PostDetail{}, ErrNotFound
	}
	if err != nil {
		return PostDetail{}, err
	}

	images, err := s.postImages(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{Post: p, Images: images}, nil
}

func (s *SQLiteStore) postImages(ctx context.Context, postID string) ([]PostImage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, image_url, is_primary, uploaded_at
		FROM board_post_images
		WHERE post_id = ?
		ORDER BY is_primary DESC, uploaded_at, rowid
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []PostImage{}
	for rows.Next() {
		var img PostImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.ImageURL, &img.IsPrimary, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

var postOrder = map[string]string{
	"latest": "p.created_at DESC, p.rowid DESC",
	"oldest": "p.created_at ASC, p.rowid ASC",
	"likes":  "like_count DESC, p.created_at DESC, p.rowid DESC",
}

// ListPosts returns one page of public posts and the total matching count.
func (s *SQLiteStore) ListPosts(ctx context.Context, f PostFilter) ([]Post, int, error) {
	where := []string{"p.is_deleted = 0", "p.is_public = 1"}
	var args []any
	if f.RegionID != nil {
		where = append(where, "p.region_id = ?")
		args = append(args, *f.RegionID)
	}
	if f.CategoryID != nil {
		where = append(where, "p.category_id = ?")
		args = append(args, *f.CategoryID)
	}
	if f.UserID != nil {
		where = append(where, "p.user_id = ?")
		args = append(args, *f.UserID)
	}
	if f.Search != "" {
		where = append(where, "(p.title LIKE ? OR p.content LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}
	whereClause := " WHERE " + strings.Join(where, " AND ")

	order, ok := postOrder[f.SortBy]
	if !ok {
		order = postOrder["latest"]
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM board_posts p`+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postColumns + postFrom + whereClause + ` ORDER BY ` + order + ` LIMIT ? OFFSET ?`
	listArgs := append([]any{f.Language}, args...)
	listArgs = append(listArgs, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.db.QueryContext(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

const postOwnerQuery = `SELECT user_id FROM board_posts WHERE id = ? AND is_deleted = 0`

func (s *SQLiteStore) UpdatePost(ctx context.Context, id string, userID int64, req UpdatePostRequest) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, postOwnerQuery, id); err != nil {
			return err
		}
		if err := checkPostRefs(ctx, tx, req.RegionID, req.CategoryID); err != nil {
			return err
		}

		var (
			sets []string
			args []any
		)
		if req.RegionID != nil {
			sets = append(sets, "region_id = ?")
			args = append(args, *req.RegionID)
		}
		if req.CategoryID != nil {
			sets = append(sets, "category_id = ?")
			args = append(args, *req.CategoryID)
		}
		if req.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *req.Title)
		}
		if req.Content != nil {
			sets = append(sets, "content = ?")
			args = append(args, *req.Content)
		}
		if req.IsPublic != nil {
			sets = append(sets, "is_public = ?")
			args = append(args, boolInt(*req.IsPublic))
		}
		sets = append(sets, "updated_at = "+nowExpr)
		args = append(args, id)

		_, err := tx.ExecContext(ctx, `UPDATE board_posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		return err
	})
}

func (s *SQLiteStore) DeletePost(ctx context.Context, id string, userID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, postOwnerQuery, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE board_posts SET is_deleted = 1, updated_at = `+nowExpr+` WHERE id = ?`, id)
		return err
	})
}

func (s *SQLiteStore) postExists(ctx context.Context, q queryer, id string) (bool, error) {
	return exists(ctx, q, `SELECT 1 FROM board_posts WHERE id = ? AND is_deleted = 0`, id)
}

// LikePost records a like; a second like by the same user is ErrConflict.
func (s *SQLiteStore) LikePost(ctx context.Context, id string, userID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.postExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO board_post_likes (post_id, user_id) VALUES (?, ?)
			ON CONFLICT (post_id, user_id) DO NOTHING
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

func (s *SQLiteStore) UnlikePost(ctx context.Context, id string, userID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM board_post_likes WHERE post_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpsertPostTranslation(ctx context.Context, postID string, req PostTranslationRequest) (PostTranslation, error) {
	tr := PostTranslation{
		Language:          req.Language,
		TranslatedTitle:   req.TranslatedTitle,
		TranslatedContent: req.TranslatedContent,
		Engine:            req.Engine,
		IsAuto:            req.IsAuto == nil || *req.IsAuto,
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.postExists(ctx, tx, postID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return tx.QueryRowContext(ctx, `
			INSERT INTO board_post_translations
				(id, post_id, language, translated_title, translated_content, translation_engine, is_auto)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (post_id, language) DO UPDATE SET
				translated_title = excluded.translated_title,
				translated_content = excluded.translated_content,
				translation_engine = excluded.translation_engine,
				is_auto = excluded.is_auto,
				translated_at = `+nowExpr+`
			RETURNING id, translated_at
		`, uuid.NewString(), postID, tr.Language, tr.TranslatedTitle, tr.TranslatedContent,
			tr.Engine, boolInt(tr.IsAuto)).Scan(&tr.ID, &tr.TranslatedAt)
	})
	return tr, err
}

func (s *SQLiteStore) ListPostTranslations(ctx context.Context, postID string) ([]PostTranslation, error) {
	ok, err := s.postExists(ctx, s.db, postID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, language, translated_title, translated_content, translation_engine, is_auto, translated_at
		FROM board_post_translations
		WHERE post_id = ?
		ORDER BY language
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	translations := []PostTranslation{}
	for rows.Next() {
		var tr PostTranslation
		if err := rows.Scan(&tr.ID, &tr.Language, &tr.TranslatedTitle, &tr.TranslatedContent,
			&tr.Engine, &tr.IsAuto, &tr.TranslatedAt); err != nil {
			return nil, err
		}
		translations = append(translations, tr)
	}
	return translations, rows.Err()
}

// AddPostImage attaches an image URL to a post. A primary image demotes
// any existing primary.
func (s *SQLiteStore) AddPostImage(ctx context.Context, postID string, userID int64, req PostImageRequest) (PostImage, error) {
	img := PostImage{ID: uuid.NewString(), PostID: postID, ImageURL: req.ImageURL, IsPrimary: req.IsPrimary}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, postOwnerQuery, postID); err != nil {
			return err
		}
		if req.IsPrimary {
			if _, err := tx.ExecContext(ctx, `UPDATE board_post_images SET is_primary = 0 WHERE post_id = ?`, postID); err != nil {
				return err
			}
		}
		return tx.QueryRowContext(ctx, `
			INSERT INTO board_post_images (id, post_id, image_url, is_primary)
			VALUES (?, ?, ?, ?)
			RETURNING uploaded_at
		`, img.ID, postID, img.ImageURL, boolInt(img.IsPrimary)).Scan(&img.UploadedAt)
	})
	return img, err
}

func (s *SQLiteStore) DeletePostImage(ctx context.Context, postID, imageID string, userID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, `
			SELECT p.user_id
			FROM board_posts p
			JOIN board_post_images i ON i.post_id = p.id
			WHERE p.id = ? AND i.id = ? AND p.is_deleted = 0
		`, postID, imageID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM board_post_images WHERE id = ?`, imageID)
		return err
	})
}
