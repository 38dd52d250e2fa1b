package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petpulse-backend-go/internal/core"
	"petpulse-backend-go/internal/models"
)

// ForumHandler handles community discussion endpoints.
type ForumHandler struct {
	forumService core.ForumService
	userService  core.UserService
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(fs core.ForumService, us core.UserService) *ForumHandler {
	return &ForumHandler{forumService: fs, userService: us}
}

func (h *ForumHandler) caller(c *gin.Context) (*models.User, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load user profile", Details: err.Error()})
		}
		return nil, false
	}
	return user, true
}

// CreatePost handles POST /api/v1/forum/posts.
func (h *ForumHandler) CreatePost(c *gin.Context) {
	author, ok := h.caller(c)
	if !ok {
		return
	}

	var req models.CreateForumPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	post, err := h.forumService.CreatePost(c.Request.Context(), author, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create post", Details: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts handles GET /api/v1/forum/posts with optional category and limit.
func (h *ForumHandler) ListPosts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'limit' value"})
			return
		}
		limit = n
	}

	posts, err := h.forumService.ListPosts(c.Request.Context(), c.Query("category"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list posts", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost handles GET /api/v1/forum/posts/:postId and returns the post with
// its replies.
func (h *ForumHandler) GetPost(c *gin.Context) {
	post, replies, err := h.forumService.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		if errors.Is(err, core.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve post", Details: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "replies": replies})
}

// DeletePost handles DELETE /api/v1/forum/posts/:postId. Only the author or
// an administrator may delete a post.
func (h *ForumHandler) DeletePost(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.forumService.DeletePost(c.Request.Context(), caller, c.Param("postId")); err != nil {
		switch {
		case errors.Is(err, core.ErrPostNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
		case errors.Is(err, core.ErrAccessDenied):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Only the author or an administrator may delete this post"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete post", Details: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Post deleted"})
}

// CreateReply handles POST /api/v1/forum/posts/:postId/replies.
func (h *ForumHandler) CreateReply(c *gin.Context) {
	author, ok := h.caller(c)
	if !ok {
		return
	}

	var req models.CreateForumReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	reply, err := h.forumService.CreateReply(c.Request.Context(), author, c.Param("postId"), req)
	if err != nil {
		if errors.Is(err, core.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create reply", Details: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reply)
}
