package models

import (
	"strings"
	"time"

	"abletech/common/errors"
)

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CommunityPost struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"authorEmail"`
	Content     string    `json:"content"`
	Likes       int       `json:"likes"`
	LikedBy     []string  `json:"likedBy"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *CommunityPost) Normalize() {
	p.Author = strings.TrimSpace(p.Author)
	p.AuthorEmail = strings.ToLower(strings.TrimSpace(p.AuthorEmail))
	p.Content = strings.TrimSpace(p.Content)
}

func (p *CommunityPost) Validate() error {
	switch {
	case p.Author == "":
		return errors.InvalidInput("author is required", nil)
	case p.AuthorEmail == "" || !ValidEmail(p.AuthorEmail):
		return errors.InvalidInput("a valid authorEmail is required", nil)
	case p.Content == "":
		return errors.InvalidInput("content is required", nil)
	}
	return nil
}

func (c *Comment) Normalize() {
	c.Author = strings.TrimSpace(c.Author)
	c.Content = strings.TrimSpace(c.Content)
	if c.Author == "" {
		c.Author = "Anonymous"
	}
}

func (c *Comment) Validate() error {
	if c.Content == "" {
		return errors.InvalidInput("comment content is required", nil)
	}
	return nil
}
