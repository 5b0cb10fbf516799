package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pictora/pictora/internal/api/objects"
	"github.com/pictora/pictora/internal/auth"
	"github.com/pictora/pictora/internal/db"
	"github.com/pictora/pictora/internal/notify"
	"github.com/pictora/pictora/pkg/logging"
)

// AnalyticsAPI provides view analytics and broadcast endpoints
type AnalyticsAPI struct {
	posts      *db.PostRepository
	users      *db.UserRepository
	engagement *db.EngagementRepository
	loader     *objects.PostLoader
	sender     notify.Sender
	logger     *zap.Logger
}

// NewAnalyticsAPI creates a new analytics API
func NewAnalyticsAPI(repo *db.Repository, loader *objects.PostLoader, sender notify.Sender) *AnalyticsAPI {
	return &AnalyticsAPI{
		posts:      db.NewPostRepository(repo),
		users:      db.NewUserRepository(repo),
		engagement: db.NewEngagementRepository(repo),
		loader:     loader,
		sender:     sender,
		logger:     logging.WithComponent("analytics-api"),
	}
}

// Index handles GET /analytics. Admin only; returns view counts per
// post across the whole catalog.
func (a *AnalyticsAPI) Index(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !principal.IsAdmin() {
		HandleError(c, Forbidden("Unauthorized. Admin access required."))
		return
	}

	counts, err := a.posts.ViewCountsPerPost(c.Request.Context())
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": counts})
}

type storeViewRequest struct {
	PostID int64 `json:"post_id" binding:"required"`
}

// StoreView handles POST /views, the explicit view-tracking endpoint.
// Repeat views by the same user are absorbed silently.
func (a *AnalyticsAPI) StoreView(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req storeViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, Validation(validationMessage(err)))
		return
	}

	ctx := c.Request.Context()
	post, err := a.posts.GetByID(ctx, req.PostID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if post == nil {
		HandleError(c, Validation("Post not found"))
		return
	}

	if err := a.engagement.RecordView(ctx, principal.UserID, post.ID); err != nil {
		HandleError(c, Internal(err))
		return
	}
	a.loader.InvalidateCounts(post.ID)

	count, err := a.engagement.CountViews(ctx, post.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "View recorded",
		"views_count": count,
	})
}

type sendNotificationRequest struct {
	PostID int64  `json:"post_id" binding:"required"`
	Title  string `json:"title" binding:"required,max=100"`
	Body   string `json:"body" binding:"required,max=500"`
}

// SendNotification handles POST /notifications. Admin broadcast to
// every follower with a registered device. Delivery runs in the
// background; the response only confirms the fan-out started.
func (a *AnalyticsAPI) SendNotification(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !auth.CanSendBroadcast(principal) {
		HandleError(c, Forbidden("Unauthorized. Admin access required."))
		return
	}

	var req sendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, Validation(validationMessage(err)))
		return
	}

	ctx := c.Request.Context()
	post, err := a.posts.GetByID(ctx, req.PostID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if post == nil {
		HandleError(c, NotFound("Post not found"))
		return
	}

	tokens, err := a.users.FollowerDeviceTokens(ctx)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if len(tokens) == 0 {
		HandleError(c, Validation("No devices registered"))
		return
	}

	notify.Dispatch(a.sender, tokens, notify.Message{
		Title: req.Title,
		Body:  req.Body,
		Data:  map[string]string{"post_id": strconv.FormatInt(post.ID, 10)},
	})
	a.logger.Info("Broadcast queued",
		zap.Int64("post_id", post.ID),
		zap.Int("devices", len(tokens)))

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification sent",
		"devices": len(tokens),
	})
}
