package server

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// CreateComment adds a comment to a live post. A reply's parent must be a
// live comment on the same post.
func (s *SQLiteStore) CreateComment(ctx context.Context, postID string, req CreateCommentRequest) (Comment, error) {
	c := Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		UserID:   req.UserID,
		ParentID: req.ParentID,
		Content:  req.Content,
		Replies:  []*Comment{},
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.postExists(ctx, tx, postID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		if req.ParentID != nil {
			ok, err := exists(ctx, tx, `
				SELECT 1 FROM board_comments WHERE id = ? AND post_id = ? AND is_deleted = 0
			`, *req.ParentID, postID)
			if err != nil {
				return err
			}
			if !ok {
				return errParentNotFound
			}
		}
		return tx.QueryRowContext(ctx, `
			INSERT INTO board_comments (id, post_id, user_id, parent_id, content)
			VALUES (?, ?, ?, ?, ?)
			RETURNING created_at, updated_at
		`, c.ID, postID, req.UserID, nullable(req.ParentID), req.Content).Scan(&c.CreatedAt, &c.UpdatedAt)
	})
	return c, err
}

var errParentNotFound = errors.New("parent comment not found")

// ListComments returns the live comments of a post as a tree of root
// comments, plus the number of live comments. Replies whose parent was
// deleted are counted but not placed in the tree.
func (s *SQLiteStore) ListComments(ctx context.Context, postID string) ([]*Comment, int, error) {
	ok, err := s.postExists(ctx, s.db, postID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, user_id, parent_id, content, created_at, updated_at
		FROM board_comments
		WHERE post_id = ? AND is_deleted = 0
		ORDER BY created_at, rowid
	`, postID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var all []*Comment
	for rows.Next() {
		var (
			c        Comment
			parentID sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &parentID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		c.ParentID = nullString(parentID)
		c.Replies = []*Comment{}
		all = append(all, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	byID := make(map[string]*Comment, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}
	roots := []*Comment{}
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots, len(all), nil
}

const commentOwnerQuery = `SELECT user_id FROM board_comments WHERE id = ? AND post_id = ? AND is_deleted = 0`

func (s *SQLiteStore) UpdateComment(ctx context.Context, postID, commentID string, userID int64, content string) (Comment, error) {
	c := Comment{ID: commentID, PostID: postID, UserID: userID, Content: content, Replies: []*Comment{}}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, commentOwnerQuery, commentID, postID); err != nil {
			return err
		}
		var parentID sql.NullString
		err := tx.QueryRowContext(ctx, `
			UPDATE board_comments SET content = ?, updated_at = `+nowExpr+`
			WHERE id = ?
			RETURNING parent_id, created_at, updated_at
		`, content, commentID).Scan(&parentID, &c.CreatedAt, &c.UpdatedAt)
		c.ParentID = nullString(parentID)
		return err
	})
	return c, err
}

func (s *SQLiteStore) DeleteComment(ctx context.Context, postID, commentID string, userID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := checkOwner(ctx, tx, userID, commentOwnerQuery, commentID, postID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE board_comments SET is_deleted = 1, updated_at = `+nowExpr+` WHERE id = ?`, commentID)
		return err
	})
}
