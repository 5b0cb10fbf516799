package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pictora/pictora/internal/api/objects"
	"github.com/pictora/pictora/internal/auth"
	"github.com/pictora/pictora/internal/db"
	"github.com/pictora/pictora/internal/models"
	"github.com/pictora/pictora/pkg/logging"
)

const sharesPerPage = 50

// ShareAPI provides share endpoints
type ShareAPI struct {
	posts      *db.PostRepository
	engagement *db.EngagementRepository
	loader     *objects.PostLoader
	logger     *zap.Logger
}

// NewShareAPI creates a new share API
func NewShareAPI(repo *db.Repository, loader *objects.PostLoader) *ShareAPI {
	return &ShareAPI{
		posts:      db.NewPostRepository(repo),
		engagement: db.NewEngagementRepository(repo),
		loader:     loader,
		logger:     logging.WithComponent("share-api"),
	}
}

type createShareRequest struct {
	SharedTo string `json:"shared_to" binding:"omitempty,max=50"`
}

// Create handles POST /posts/:id/share. A user shares a post to a
// given destination at most once.
func (a *ShareAPI) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	postID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	// The body is optional, shared_to defaults to the empty destination
	var req createShareRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, Validation(validationMessage(err)))
			return
		}
	}

	ctx := c.Request.Context()
	post, err := a.posts.GetByID(ctx, postID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if post == nil {
		HandleError(c, NotFound("Post not found"))
		return
	}

	exists, err := a.engagement.ShareExists(ctx, principal.UserID, post.ID, req.SharedTo)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if exists {
		HandleError(c, Conflict("You have already shared this post"))
		return
	}

	share := &models.Share{
		UserID:   principal.UserID,
		PostID:   post.ID,
		SharedTo: req.SharedTo,
	}
	if err := a.engagement.CreateShare(ctx, share); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			HandleError(c, Conflict("You have already shared this post"))
			return
		}
		HandleError(c, Internal(err))
		return
	}
	a.loader.InvalidateCounts(post.ID)

	count, err := a.engagement.CountShares(ctx, post.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Post shared successfully",
		"share":        objects.BuildShare(share),
		"shares_count": count,
	})
}

// List handles GET /posts/:id/shares
func (a *ShareAPI) List(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	postID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	page, err := ParsePage(c, sharesPerPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	post, err := a.posts.GetByID(ctx, postID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if post == nil {
		HandleError(c, NotFound("Post not found"))
		return
	}

	shares, total, err := a.engagement.ListShares(ctx, post.ID, page.Offset(), page.PerPage)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, NewEnvelope(objects.BuildShares(shares), total, page))
}

// Delete handles DELETE /shares/:id. Only the share's creator may
// remove it.
func (a *ShareAPI) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	shareID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	share, err := a.engagement.GetShareByID(ctx, shareID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if share == nil {
		HandleError(c, NotFound("Share not found"))
		return
	}
	if !auth.CanDeleteShare(principal, share.UserID) {
		HandleError(c, Forbidden("Unauthorized"))
		return
	}

	if err := a.engagement.DeleteShare(ctx, share); err != nil {
		HandleError(c, Internal(err))
		return
	}
	a.loader.InvalidateCounts(share.PostID)

	c.JSON(http.StatusOK, gin.H{"message": "Share removed successfully"})
}
