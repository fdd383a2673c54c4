package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateTitle = errors.New("duplicate title")
	ErrUserForeignKey = errors.New("author_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError reports whether err is a violation of the named foreign key
// constraint.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

// UniqueViolationError reports whether err is a violation of the named unique
// constraint.
func UniqueViolationError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *BlogModel) insert(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO blog_posts (title, subtitle, body, img_url, date, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	args := []any{p.Title, p.Subtitle, p.Body, p.ImgURL, p.Date, p.AuthorID}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		switch {
		case UniqueViolationError(err, "blog_posts_title_key"):
			return ErrDuplicateTitle
		case ForeignKeyError(err, "blog_posts_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getPostById joins the users table so templates can show the author's name
// without a second query.
func (m *BlogModel) getPostById(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.subtitle, p.body, p.img_url, p.date, p.author_id, p.created_at, u.name
		FROM blog_posts p
		JOIN users u ON p.author_id = u.id
		WHERE p.id = $1`

	row := m.db.QueryRowContext(ctx, query, id)

	var post Post
	err := row.Scan(&post.ID, &post.Title, &post.Subtitle, &post.Body, &post.ImgURL, &post.Date, &post.AuthorID, &post.CreatedAt, &post.AuthorName)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &post, nil
}

// getPosts returns every post in insertion order.
func (m *BlogModel) getPosts(ctx context.Context) ([]Post, error) {
	query := `
		SELECT p.id, p.title, p.subtitle, p.body, p.img_url, p.date, p.author_id, p.created_at, u.name
		FROM blog_posts p
		JOIN users u ON p.author_id = u.id
		ORDER BY p.id ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.Title, &post.Subtitle, &post.Body, &post.ImgURL, &post.Date, &post.AuthorID, &post.CreatedAt, &post.AuthorName)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// updatePost overwrites the mutable columns only. The date and author_id
// columns are deliberately absent from the SET list so the original
// publication date and authorship survive every edit.
func (m *BlogModel) updatePost(ctx context.Context, p *Post) error {
	query := `
		UPDATE blog_posts
		SET title = $1, subtitle = $2, body = $3, img_url = $4
		WHERE id = $5
		RETURNING date, author_id, created_at`

	err := m.db.QueryRowContext(ctx, query, p.Title, p.Subtitle, p.Body, p.ImgURL, p.ID).Scan(&p.Date, &p.AuthorID, &p.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		case UniqueViolationError(err, "blog_posts_title_key"):
			return ErrDuplicateTitle
		default:
			return err
		}
	}

	return nil
}

// deletePost removes the post; the ON DELETE CASCADE constraint on
// comments.post_id removes the dependent comments in the same statement.
func (m *BlogModel) deletePost(ctx context.Context, id int) error {
	query := `
		DELETE FROM blog_posts
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) insertComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (text, author_id, post_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, c.Text, c.AuthorID, c.PostID).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		switch {
		// The post vanished between the view and the submit.
		case ForeignKeyError(err, "comments_post_id_fkey"):
			return ErrRecordNotFound
		case ForeignKeyError(err, "comments_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getCommentsByPostId(ctx context.Context, postID int) ([]Comment, error) {
	query := `
		SELECT c.id, c.text, c.author_id, c.post_id, c.created_at, u.name
		FROM comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.id ASC`

	rows, err := m.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var comment Comment
		err := rows.Scan(&comment.ID, &comment.Text, &comment.AuthorID, &comment.PostID, &comment.CreatedAt, &comment.AuthorName)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
