package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pictora/pictora/internal/api/objects"
	"github.com/pictora/pictora/internal/auth"
	"github.com/pictora/pictora/internal/db"
	"github.com/pictora/pictora/internal/models"
	"github.com/pictora/pictora/internal/notify"
	"github.com/pictora/pictora/internal/storage"
	"github.com/pictora/pictora/pkg/logging"
)

const (
	maxCaptionLength = 2500
	maxMediaFiles    = 10
	feedPerPage      = 15
	likersPerPage    = 50
)

// validateCaption bounds captions in characters, matching the rune
// count the update binding enforces.
func validateCaption(caption string) error {
	if caption == "" {
		return Validation("caption is required")
	}
	if utf8.RuneCountInString(caption) > maxCaptionLength {
		return Validation(fmt.Sprintf("caption must be at most %d characters", maxCaptionLength))
	}
	return nil
}

// PostAPI provides post and like endpoints
type PostAPI struct {
	posts      *db.PostRepository
	users      *db.UserRepository
	follows    *db.FollowRepository
	engagement *db.EngagementRepository
	loader     *objects.PostLoader
	store      storage.ObjectStorage
	sender     notify.Sender
	logger     *zap.Logger
}

// NewPostAPI creates a new post API
func NewPostAPI(repo *db.Repository, loader *objects.PostLoader, store storage.ObjectStorage, sender notify.Sender) *PostAPI {
	return &PostAPI{
		posts:      db.NewPostRepository(repo),
		users:      db.NewUserRepository(repo),
		follows:    db.NewFollowRepository(repo),
		engagement: db.NewEngagementRepository(repo),
		loader:     loader,
		store:      store,
		sender:     sender,
		logger:     logging.WithComponent("post-api"),
	}
}

// Create handles POST /posts. Admin only. Media files are written to
// object storage before the row commits; any file failure aborts the
// whole operation.
func (a *PostAPI) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if !auth.CanCreatePost(principal) {
		HandleError(c, Forbidden("Unauthorized. Only admins can create posts."))
		return
	}

	caption := strings.TrimSpace(c.PostForm("caption"))
	if err := validateCaption(caption); err != nil {
		HandleError(c, err)
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["media"]
	}
	if len(files) > maxMediaFiles {
		HandleError(c, Validation(fmt.Sprintf("at most %d media files per post", maxMediaFiles)))
		return
	}

	ctx := c.Request.Context()

	// Files first, row second. On any failure the uploaded files are
	// removed so no orphan ends up on either side.
	var uploaded []string
	cleanup := func() {
		for _, url := range uploaded {
			if err := a.store.Delete(context.Background(), url); err != nil {
				a.logger.Warn("Failed to remove uploaded file", zap.String("url", url), zap.Error(err))
			}
		}
	}

	media := make([]models.PostMedia, 0, len(files))
	for i, file := range files {
		mediaType := models.MediaTypeImage
		if strings.HasPrefix(file.Header.Get("Content-Type"), "video/") {
			mediaType = models.MediaTypeVideo
		}

		url, err := a.store.Upload(ctx, file, "posts")
		if err != nil {
			cleanup()
			HandleError(c, Internal(fmt.Errorf("media upload failed: %w", err)))
			return
		}
		uploaded = append(uploaded, url)

		media = append(media, models.PostMedia{
			MediaType: mediaType,
			MediaURL:  url,
			Order:     i,
		})
	}

	post := &models.Post{
		UserID:      principal.UserID,
		Caption:     caption,
		PublishedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
		Media:       media,
	}
	if err := a.posts.Create(ctx, post); err != nil {
		cleanup()
		HandleError(c, Internal(err))
		return
	}

	loaded, err := a.posts.GetByID(ctx, post.ID)
	if err != nil || loaded == nil {
		HandleError(c, Internal(err))
		return
	}
	view, err := a.loader.BuildPost(ctx, loaded, &principal)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    view,
	})
}

// List handles GET /posts, the global feed of visible posts
func (a *PostAPI) List(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	page, err := ParsePage(c, feedPerPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	posts, total, err := a.posts.ListVisible(ctx, nil, page.Offset(), page.PerPage)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	views, err := a.loader.BuildPosts(ctx, posts, &principal)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, NewEnvelope(views, total, page))
}

// Feed handles GET /posts/feed, restricted to the viewer and the users
// the viewer follows. A viewer following nobody still sees their own
// posts.
func (a *PostAPI) Feed(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	page, err := ParsePage(c, feedPerPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	authorIDs, err := a.follows.FollowingIDs(ctx, principal.UserID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	authorIDs = append(authorIDs, principal.UserID)

	posts, total, err := a.posts.ListVisible(ctx, authorIDs, page.Offset(), page.PerPage)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	views, err := a.loader.BuildPosts(ctx, posts, &principal)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, NewEnvelope(views, total, page))
}

// Show handles GET /posts/:id and records a view for the requester
func (a *PostAPI) Show(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	postID, err := parseID(c, "id")
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

	// Views are recorded once per (user, post) pair
	if err := a.engagement.RecordView(ctx, principal.UserID, post.ID); err != nil {
		a.logger.Warn("Failed to record view", zap.Int64("post_id", post.ID), zap.Error(err))
	} else {
		a.loader.InvalidateCounts(post.ID)
	}

	view, err := a.loader.BuildPost(ctx, post, &principal)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, view)
}

type updatePostRequest struct {
	Caption    *string `json:"caption" binding:"omitempty,min=1,max=2500"`
	IsArchived *bool   `json:"is_archived"`
}

// Update handles PUT /posts/:id. Only the owning admin may update.
func (a *PostAPI) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	postID, err := parseID(c, "id")
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
	if !auth.CanMutatePost(principal, post.UserID) {
		HandleError(c, Forbidden("Unauthorized"))
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, Validation(validationMessage(err)))
		return
	}

	if req.Caption != nil {
		post.Caption = *req.Caption
	}
	if req.IsArchived != nil {
		post.IsArchived = *req.IsArchived
	}

	if err := a.posts.Update(ctx, post); err != nil {
		HandleError(c, Internal(err))
		return
	}

	view, err := a.loader.BuildPost(ctx, post, &principal)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    view,
	})
}

// Delete handles DELETE /posts/:id. The row is soft-deleted; media
// files are removed from object storage best-effort.
func (a *PostAPI) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	postID, err := parseID(c, "id")
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
	if !auth.CanMutatePost(principal, post.UserID) {
		HandleError(c, Forbidden("Unauthorized"))
		return
	}

	for _, m := range post.Media {
		if err := a.store.Delete(ctx, m.MediaURL); err != nil {
			a.logger.Warn("Failed to delete media file", zap.String("url", m.MediaURL), zap.Error(err))
		}
		if m.ThumbnailURL.Valid {
			if err := a.store.Delete(ctx, m.ThumbnailURL.String); err != nil {
				a.logger.Warn("Failed to delete thumbnail", zap.String("url", m.ThumbnailURL.String), zap.Error(err))
			}
		}
	}

	if err := a.posts.SoftDelete(ctx, post); err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// Like handles POST /posts/:id/like. Liking twice is a conflict; the
// unique constraint on (user, post) closes the race the pre-check
// cannot.
func (a *PostAPI) Like(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	postID, err := parseID(c, "id")
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

	liked, err := a.engagement.LikeExists(ctx, principal.UserID, post.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if liked {
		HandleError(c, Conflict("You have already liked this post"))
		return
	}

	like := &models.Like{UserID: principal.UserID, PostID: post.ID}
	if err := a.engagement.CreateLike(ctx, like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			HandleError(c, Conflict("You have already liked this post"))
			return
		}
		HandleError(c, Internal(err))
		return
	}
	a.loader.InvalidateCounts(post.ID)

	a.notifyAuthor(ctx, post, principal, "liked your post")

	count, err := a.engagement.CountLikes(ctx, post.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Post liked successfully",
		"likes_count": count,
	})
}

// Unlike handles POST /posts/:id/unlike. Unliking a post that was
// never liked succeeds with zero effect.
func (a *PostAPI) Unlike(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	postID, err := parseID(c, "id")
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

	if err := a.engagement.DeleteLike(ctx, principal.UserID, post.ID); err != nil {
		HandleError(c, Internal(err))
		return
	}
	a.loader.InvalidateCounts(post.ID)

	count, err := a.engagement.CountLikes(ctx, post.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Like removed successfully",
		"likes_count": count,
	})
}

// Likes handles GET /posts/:id/likes, a paginated list of liker cards
func (a *PostAPI) Likes(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	postID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	page, err := ParsePage(c, likersPerPage)
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

	likes, total, err := a.engagement.ListLikers(ctx, post.ID, page.Offset(), page.PerPage)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	cards := make([]objects.UserCard, 0, len(likes))
	for i := range likes {
		if likes[i].User != nil {
			cards = append(cards, objects.NewUserCard(likes[i].User))
		}
	}

	c.JSON(http.StatusOK, NewEnvelope(cards, total, page))
}

// notifyAuthor pushes a notification to the post author, unless the
// actor is the author. Delivery is fire-and-forget.
func (a *PostAPI) notifyAuthor(ctx context.Context, post *models.Post, actor auth.Principal, action string) {
	if post.UserID == actor.UserID {
		return
	}
	token, err := a.users.DeviceToken(ctx, post.UserID)
	if err != nil {
		a.logger.Warn("Failed to load author device token", zap.Int64("user_id", post.UserID), zap.Error(err))
		return
	}
	if token == "" {
		return
	}
	notify.Dispatch(a.sender, []string{token}, notify.Message{
		Title: "Pictora",
		Body:  "Someone " + action,
		Data:  map[string]string{"post_id": strconv.FormatInt(post.ID, 10)},
	})
}
