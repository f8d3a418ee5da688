package service

import (
	"context"
	"strings"

	"abletech/common/errors"
	"abletech/common/events"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/store"

	"go.uber.org/zap"
)

type CommunityService struct {
	store     *store.Store
	publisher events.Publisher
	logger    *zap.Logger
}

func NewCommunityService(logger *zap.Logger, s *store.Store, publisher events.Publisher) *CommunityService {
	return &CommunityService{store: s, publisher: publisher, logger: logger}
}

func (s *CommunityService) List(ctx context.Context) ([]models.CommunityPost, error) {
	posts, err := s.store.ListPosts(ctx)
	return posts, storeError(err, "posts")
}

func (s *CommunityService) Create(ctx context.Context, p *models.CommunityPost) (*models.CommunityPost, error) {
	p.ID = ""
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, storeError(err, "post")
	}

	e := events.New(events.PostCreated, p.AuthorEmail)
	e.ItemID = p.ID
	e.ItemType = "post"
	publish(ctx, s.publisher, s.logger, e)
	return p, nil
}

// Delete removes a post on behalf of email, which must be the author's.
func (s *CommunityService) Delete(ctx context.Context, id, email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.InvalidInput("email is required", nil)
	}
	if err := s.store.DeletePost(ctx, id, email); err != nil {
		return storeError(err, "post")
	}
	s.logger.Info("post deleted", zap.String("id", id))
	return nil
}

// ToggleLike likes the post for email, or unlikes it when already liked.
func (s *CommunityService) ToggleLike(ctx context.Context, id, email string) (*models.CommunityPost, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !models.ValidEmail(email) {
		return nil, errors.InvalidInput("a valid email is required", nil)
	}
	post, liked, err := s.store.ToggleLike(ctx, id, email)
	if err != nil {
		return nil, storeError(err, "post")
	}

	if liked {
		e := events.New(events.PostLiked, email)
		e.ItemID = post.ID
		e.ItemType = "post"
		publish(ctx, s.publisher, s.logger, e)
	}
	return post, nil
}

func (s *CommunityService) Comment(ctx context.Context, postID string, c *models.Comment) (*models.CommunityPost, error) {
	c.ID = ""
	c.PostID = postID
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.AddComment(ctx, c); err != nil {
		return nil, storeError(err, "post")
	}
	post, err := s.store.GetPost(ctx, postID)
	return post, storeError(err, "post")
}
