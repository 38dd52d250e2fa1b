package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"petpulse-backend-go/internal/middleware"
	"petpulse-backend-go/internal/models"
	"petpulse-backend-go/pkg/cache"
)

// stubResolver counts resolutions and returns a fixed status.
type stubResolver struct {
	status   models.SubscriptionStatus
	resolves int
}

func (s *stubResolver) Resolve(context.Context, string, string) models.SubscriptionStatus {
	s.resolves++
	return s.status
}

func (s *stubResolver) Reconcile(ctx context.Context, userID string) models.SubscriptionStatus {
	return s.Resolve(ctx, userID, "")
}

func (s *stubResolver) StartTrial(context.Context, string) (*models.User, error) { return nil, nil }
func (s *stubResolver) CancelTrial(context.Context, string) error                { return nil }

// memoryCache is an in-process cache.Cache for tests.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func statusRouter(h *SubscriptionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "user-1")
		c.Set(middleware.ContextUserEmail, "owner@example.com")
	})
	router.GET("/status", h.GetStatus)
	return router
}

func TestGetStatusCachesResolvedValue(t *testing.T) {
	resolver := &stubResolver{status: models.SubscriptionStatus{IsActive: true, Plan: models.PlanMonthly}}
	handler := NewSubscriptionHandler(resolver, newMemoryCache(), time.Minute, zap.NewNop())
	router := statusRouter(handler)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"isActive":true,"plan":"monthly","isTrialActive":false,"cancelAtPeriodEnd":false,"adminGranted":false}`, w.Body.String())
	}

	assert.Equal(t, 1, resolver.resolves)
}

func TestGetStatusWithoutCacheResolvesEveryTime(t *testing.T) {
	resolver := &stubResolver{status: models.SubscriptionStatus{Plan: models.PlanFree}}
	handler := NewSubscriptionHandler(resolver, nil, time.Minute, zap.NewNop())
	router := statusRouter(handler)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, resolver.resolves)
}

func TestGetStatusRequiresAuthenticatedContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSubscriptionHandler(&stubResolver{}, nil, time.Minute, zap.NewNop())
	router := gin.New()
	router.GET("/status", handler.GetStatus)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
