package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"petpulse-backend-go/internal/db"
	"petpulse-backend-go/internal/models"
)

// ErrPostNotFound is returned when a forum post is not found.
var ErrPostNotFound = errors.New("forum post not found")

// forumService implements the ForumService interface.
type forumService struct {
	forumRepo db.ForumRepository
	logger    *zap.Logger
}

// NewForumService creates a new ForumService instance.
func NewForumService(forumRepo db.ForumRepository, logger *zap.Logger) ForumService {
	return &forumService{forumRepo: forumRepo, logger: logger}
}

// CreatePost publishes a new discussion post.
func (s *forumService) CreatePost(ctx context.Context, author *models.User, req models.CreateForumPostRequest) (*models.ForumPost, error) {
	post := &models.ForumPost{
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
		Title:      req.Title,
		Body:       req.Body,
		Category:   req.Category,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if _, err := s.forumRepo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create forum post: %w", err)
	}
	return post, nil
}

// GetPost returns a post with its replies.
func (s *forumService) GetPost(ctx context.Context, postID string) (*models.ForumPost, []*models.ForumReply, error) {
	post, err := s.forumRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: post '%s'", ErrPostNotFound, postID)
		}
		return nil, nil, fmt.Errorf("failed to get forum post '%s': %w", postID, err)
	}
	replies, err := s.forumRepo.ListReplies(ctx, postID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list replies for post '%s': %w", postID, err)
	}
	return post, replies, nil
}

// ListPosts returns recent posts, optionally by category.
func (s *forumService) ListPosts(ctx context.Context, category string, limit int) ([]*models.ForumPost, error) {
	posts, err := s.forumRepo.ListPosts(ctx, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list forum posts: %w", err)
	}
	return posts, nil
}

// DeletePost removes a post. Allowed for the author and for admins.
func (s *forumService) DeletePost(ctx context.Context, caller *models.User, postID string) error {
	post, err := s.forumRepo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: post '%s'", ErrPostNotFound, postID)
		}
		return fmt.Errorf("failed to get forum post '%s': %w", postID, err)
	}
	if post.AuthorID != caller.ID && !caller.IsAdmin() {
		return ErrAccessDenied
	}
	if err := s.forumRepo.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete forum post '%s': %w", postID, err)
	}
	return nil
}

// CreateReply adds a reply to an existing post.
func (s *forumService) CreateReply(ctx context.Context, author *models.User, postID string, req models.CreateForumReplyRequest) (*models.ForumReply, error) {
	if _, err := s.forumRepo.GetPost(ctx, postID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: post '%s'", ErrPostNotFound, postID)
		}
		return nil, fmt.Errorf("failed to get forum post '%s': %w", postID, err)
	}
	reply := &models.ForumReply{
		PostID:     postID,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
		Body:       req.Body,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.forumRepo.CreateReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply for post '%s': %w", postID, err)
	}
	return reply, nil
}
