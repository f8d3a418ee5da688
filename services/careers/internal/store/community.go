package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"abletech/services/careers/internal/models"

	"github.com/google/uuid"
)

func (s *Store) CreatePost(ctx context.Context, p *models.CommunityPost) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	p.Likes = 0
	p.LikedBy = []string{}
	p.Comments = []models.Comment{}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO posts (id, author, author_email, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Author, p.AuthorEmail, p.Content, formatTime(p.CreatedAt))
	return err
}

// ListPosts returns posts newest first with their likes and comments.
func (s *Store) ListPosts(ctx context.Context) ([]models.CommunityPost, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, author, author_email, content, created_at
		FROM posts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	posts := []models.CommunityPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		posts = append(posts, *p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		if err := s.loadPostRelations(ctx, s.DB, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.CommunityPost, error) {
	return s.getPost(ctx, s.DB, id)
}

// DeletePost removes a post only when authorEmail is its author. It returns
// ErrNotAuthor otherwise.
func (s *Store) DeletePost(ctx context.Context, id, authorEmail string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var owner string
		err := tx.QueryRowContext(ctx, `SELECT author_email FROM posts WHERE id = ?`, id).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !strings.EqualFold(owner, strings.TrimSpace(authorEmail)) {
			return ErrNotAuthor
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
		return err
	})
}

// ToggleLike adds the user's like, or removes it when already present, and
// returns the updated post.
func (s *Store) ToggleLike(ctx context.Context, postID, email string) (*models.CommunityPost, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		post  *models.CommunityPost
		liked bool
	)
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = ? AND email = ?`, postID, email)
		if err != nil {
			return err
		}
		removed, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if removed == 0 {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO post_likes (post_id, email, liked_at) VALUES (?, ?, ?)`,
				postID, email, formatTime(s.now()),
			); err != nil {
				return err
			}
			liked = true
		}

		post, err = s.getPost(ctx, tx, postID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return post, liked, nil
}

func (s *Store) AddComment(ctx context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, c.PostID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO comments (id, post_id, author, content, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.PostID, c.Author, c.Content, formatTime(c.CreatedAt))
		return err
	})
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getPost(ctx context.Context, q querier, id string) (*models.CommunityPost, error) {
	p, err := scanPost(q.QueryRowContext(ctx, `
		SELECT id, author, author_email, content, created_at FROM posts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadPostRelations(ctx, q, p); err != nil {
		return nil, err
	}
	return p, nil
}

// loadPostRelations fills likes and comments. Likes always equal the number
// of distinct likers.
func (s *Store) loadPostRelations(ctx context.Context, q querier, p *models.CommunityPost) error {
	likes, err := q.QueryContext(ctx,
		`SELECT email FROM post_likes WHERE post_id = ? ORDER BY liked_at, email`, p.ID)
	if err != nil {
		return err
	}
	p.LikedBy = []string{}
	for likes.Next() {
		var email string
		if err := likes.Scan(&email); err != nil {
			likes.Close()
			return err
		}
		p.LikedBy = append(p.LikedBy, email)
	}
	likes.Close()
	if err := likes.Err(); err != nil {
		return err
	}
	p.Likes = len(p.LikedBy)

	comments, err := q.QueryContext(ctx, `
		SELECT id, post_id, author, content, created_at
		FROM comments WHERE post_id = ? ORDER BY created_at, id`, p.ID)
	if err != nil {
		return err
	}
	defer comments.Close()

	p.Comments = []models.Comment{}
	for comments.Next() {
		var (
			c         models.Comment
			createdAt string
		)
		if err := comments.Scan(&c.ID, &c.PostID, &c.Author, &c.Content, &createdAt); err != nil {
			return err
		}
		c.CreatedAt = parseTime(createdAt)
		p.Comments = append(p.Comments, c)
	}
	return comments.Err()
}

func scanPost(row scanner) (*models.CommunityPost, error) {
	var (
		p         models.CommunityPost
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.Author, &p.AuthorEmail, &p.Content, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}
