package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pictora/pictora/internal/api/objects"
	"github.com/pictora/pictora/internal/auth"
	"github.com/pictora/pictora/internal/db"
	"github.com/pictora/pictora/internal/models"
	"github.com/pictora/pictora/internal/notify"
	"github.com/pictora/pictora/pkg/logging"
)

const commentsPerPage = 20

// CommentAPI provides comment endpoints
type CommentAPI struct {
	comments *db.CommentRepository
	posts    *db.PostRepository
	users    *db.UserRepository
	loader   *objects.PostLoader
	sender   notify.Sender
	logger   *zap.Logger
}

// NewCommentAPI creates a new comment API
func NewCommentAPI(repo *db.Repository, loader *objects.PostLoader, sender notify.Sender) *CommentAPI {
	return &CommentAPI{
		comments: db.NewCommentRepository(repo),
		posts:    db.NewPostRepository(repo),
		users:    db.NewUserRepository(repo),
		loader:   loader,
		sender:   sender,
		logger:   logging.WithComponent("comment-api"),
	}
}

// List handles GET /posts/:id/comments. Top-level comments paginate
// newest first; each carries its full reply list.
func (a *CommentAPI) List(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	postID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	page, err := ParsePage(c, commentsPerPage)
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

	comments, total, err := a.comments.ListTopLevel(ctx, post.ID, page.Offset(), page.PerPage)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, NewEnvelope(objects.BuildComments(comments), total, page))
}

type createCommentRequest struct {
	Body            string `json:"body" binding:"required,min=1,max=1000"`
	ParentCommentID *int64 `json:"parent_comment_id"`
}

// Create handles POST /posts/:id/comments. Replies attach only to
// top-level comments of the same post; deeper nesting is rejected.
func (a *CommentAPI) Create(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	postID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, Validation(validationMessage(err)))
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

	comment := &models.Comment{
		PostID: post.ID,
		UserID: principal.UserID,
		Body:   req.Body,
	}

	if req.ParentCommentID != nil {
		parent, err := a.comments.GetByIDForPost(ctx, *req.ParentCommentID, post.ID)
		if err != nil {
			HandleError(c, Internal(err))
			return
		}
		if parent == nil {
			HandleError(c, Validation("Parent comment not found on this post"))
			return
		}
		if parent.IsReply() {
			HandleError(c, Validation("You cannot reply to a reply"))
			return
		}
		comment.ParentCommentID = sql.NullInt64{Int64: parent.ID, Valid: true}
	}

	if err := a.comments.Create(ctx, comment); err != nil {
		HandleError(c, Internal(err))
		return
	}
	a.loader.InvalidateCounts(post.ID)

	a.notifyAuthor(ctx, post, principal)

	created, err := a.comments.GetByIDExpanded(ctx, comment.ID)
	if err != nil || created == nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": objects.BuildComment(created),
	})
}

type updateCommentRequest struct {
	Body string `json:"body" binding:"required,min=1,max=1000"`
}

// Update handles PUT /comments/:id. Only the author may edit.
func (a *CommentAPI) Update(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	commentID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, Validation(validationMessage(err)))
		return
	}

	ctx := c.Request.Context()
	comment, err := a.comments.GetByID(ctx, commentID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if comment == nil {
		HandleError(c, NotFound("Comment not found"))
		return
	}
	if !auth.CanMutateComment(principal, comment.UserID) {
		HandleError(c, Forbidden("Unauthorized"))
		return
	}

	comment.Body = req.Body
	if err := a.comments.Update(ctx, comment); err != nil {
		HandleError(c, Internal(err))
		return
	}

	updated, err := a.comments.GetByIDExpanded(ctx, comment.ID)
	if err != nil || updated == nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated successfully",
		"comment": objects.BuildComment(updated),
	})
}

// Delete handles DELETE /comments/:id. Soft delete; replies survive in
// the table but drop out of the tree with their parent.
func (a *CommentAPI) Delete(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	commentID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	comment, err := a.comments.GetByID(ctx, commentID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if comment == nil {
		HandleError(c, NotFound("Comment not found"))
		return
	}
	if !auth.CanMutateComment(principal, comment.UserID) {
		HandleError(c, Forbidden("Unauthorized"))
		return
	}

	if err := a.comments.SoftDelete(ctx, comment); err != nil {
		HandleError(c, Internal(err))
		return
	}
	a.loader.InvalidateCounts(comment.PostID)

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (a *CommentAPI) notifyAuthor(ctx context.Context, post *models.Post, actor auth.Principal) {
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
		Body:  "Someone commented on your post",
		Data:  map[string]string{"post_id": strconv.FormatInt(post.ID, 10)},
	})
}
