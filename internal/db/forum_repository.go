package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"petpulse-backend-go/internal/models"
)

const (
	forumPostsCollection = "forumPosts"
	repliesSubcollection = "replies"
)

// firestoreForumRepository stores posts in forumPosts/{postId} and replies in
// forumPosts/{postId}/replies/{replyId}.
type firestoreForumRepository struct {
	client *firestore.Client
}

// NewFirestoreForumRepository creates a new instance of firestoreForumRepository.
func NewFirestoreForumRepository(client *firestore.Client) ForumRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ForumRepository.")
	}
	return &firestoreForumRepository{client: client}
}

// CreatePost adds a new post and returns its generated ID.
func (r *firestoreForumRepository) CreatePost(ctx context.Context, post *models.ForumPost) (string, error) {
	if post.AuthorID == "" {
		return "", errors.New("post authorID cannot be empty for CreatePost operation")
	}
	docRef := r.client.Collection(forumPostsCollection).NewDoc()
	if _, err := docRef.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create forum post by '%s': %w", post.AuthorID, err)
	}
	post.ID = docRef.ID
	return docRef.ID, nil
}

// GetPost retrieves a post by ID.
func (r *firestoreForumRepository) GetPost(ctx context.Context, postID string) (*models.ForumPost, error) {
	if postID == "" {
		return nil, errors.New("postID cannot be empty for GetPost operation")
	}
	docSnap, err := r.client.Collection(forumPostsCollection).Doc(postID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("forum post '%s' not found: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get forum post '%s': %w", postID, err)
	}

	var post models.ForumPost
	if err := docSnap.DataTo(&post); err != nil {
		return nil, fmt.Errorf("failed to decode forum post '%s': %w", postID, err)
	}
	post.ID = docSnap.Ref.ID
	return &post, nil
}

// ListPosts returns posts newest first, optionally restricted to a category.
func (r *firestoreForumRepository) ListPosts(ctx context.Context, category string, limit int) ([]*models.ForumPost, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.client.Collection(forumPostsCollection).Query
	if category != "" {
		q = q.Where("category", "==", category)
	}
	iter := q.OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var posts []*models.ForumPost
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list forum posts: %w", err)
		}
		var post models.ForumPost
		if err := docSnap.DataTo(&post); err != nil {
			return nil, fmt.Errorf("failed to decode forum post '%s': %w", docSnap.Ref.ID, err)
		}
		post.ID = docSnap.Ref.ID
		posts = append(posts, &post)
	}
	return posts, nil
}

// DeletePost removes a post and its replies.
func (r *firestoreForumRepository) DeletePost(ctx context.Context, postID string) error {
	if postID == "" {
		return errors.New("postID cannot be empty for DeletePost operation")
	}
	postRef := r.client.Collection(forumPostsCollection).Doc(postID)

	iter := postRef.Collection(repliesSubcollection).Documents(ctx)
	defer iter.Stop()
	batch := r.client.Batch()
	n := 0
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate replies for post '%s': %w", postID, err)
		}
		batch.Delete(docSnap.Ref)
		n++
	}
	batch.Delete(postRef)
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to delete forum post '%s': %w", postID, err)
	}
	return nil
}

// CreateReply adds a reply under its post and bumps the post's replyCount.
// The counter update uses firestore.Increment, so concurrent replies do not
// lose counts.
func (r *firestoreForumRepository) CreateReply(ctx context.Context, reply *models.ForumReply) (string, error) {
	if reply.PostID == "" || reply.AuthorID == "" {
		return "", errors.New("reply postID and authorID cannot be empty for CreateReply operation")
	}
	postRef := r.client.Collection(forumPostsCollection).Doc(reply.PostID)
	docRef := postRef.Collection(repliesSubcollection).NewDoc()

	if _, err := docRef.Create(ctx, reply); err != nil {
		return "", fmt.Errorf("failed to create reply for post '%s': %w", reply.PostID, err)
	}
	if _, err := postRef.Update(ctx, []firestore.Update{
		{Path: "replyCount", Value: firestore.Increment(1)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}); err != nil {
		// Reply exists but the counter is off by one. Accepted: the counter
		// is display-only and re-derivable.
		return docRef.ID, fmt.Errorf("reply created but failed to bump replyCount for post '%s': %w", reply.PostID, err)
	}
	reply.ID = docRef.ID
	return docRef.ID, nil
}

// ListReplies returns all replies for a post, oldest first.
func (r *firestoreForumRepository) ListReplies(ctx context.Context, postID string) ([]*models.ForumReply, error) {
	if postID == "" {
		return nil, errors.New("postID cannot be empty for ListReplies operation")
	}
	iter := r.client.Collection(forumPostsCollection).Doc(postID).
		Collection(repliesSubcollection).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var replies []*models.ForumReply
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list replies for post '%s': %w", postID, err)
		}
		var reply models.ForumReply
		if err := docSnap.DataTo(&reply); err != nil {
			return nil, fmt.Errorf("failed to decode reply '%s': %w", docSnap.Ref.ID, err)
		}
		reply.ID = docSnap.Ref.ID
		replies = append(replies, &reply)
	}
	return replies, nil
}
