package models

import "time"

// ForumPost is a community discussion post. ReplyCount is maintained with a
// Firestore increment when replies are created or removed.
type ForumPost struct {
	ID         string    `json:"id" firestore:"-"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Title      string    `json:"title" firestore:"title"`
	Body       string    `json:"body" firestore:"body"`
	Category   string    `json:"category,omitempty" firestore:"category,omitempty"`
	ReplyCount int       `json:"replyCount" firestore:"replyCount"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// ForumReply lives in the replies subcollection of its post.
type ForumReply struct {
	ID         string    `json:"id" firestore:"-"`
	PostID     string    `json:"postId" firestore:"postId"`
	AuthorID   string    `json:"authorId" firestore:"authorId"`
	AuthorName string    `json:"authorName,omitempty" firestore:"authorName,omitempty"`
	Body       string    `json:"body" firestore:"body"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
