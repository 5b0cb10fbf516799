package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
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
	maxNameLength = 255
	maxBioLength  = 500
	// usersPerPage is the search default; follower and following
	// listings page larger.
	usersPerPage      = 15
	followListPerPage = 20
)

// UserAPI provides profile, follow graph and account endpoints
type UserAPI struct {
	users   *db.UserRepository
	follows *db.FollowRepository
	store   storage.ObjectStorage
	sender  notify.Sender
	logger  *zap.Logger
}

// NewUserAPI creates a new user API
func NewUserAPI(repo *db.Repository, store storage.ObjectStorage, sender notify.Sender) *UserAPI {
	return &UserAPI{
		users:   db.NewUserRepository(repo),
		follows: db.NewFollowRepository(repo),
		store:   store,
		sender:  sender,
		logger:  logging.WithComponent("user-api"),
	}
}

// Me handles GET /user/me, the authenticated user's own profile
func (a *UserAPI) Me(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.GetByID(ctx, principal.UserID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if user == nil {
		HandleError(c, NotFound("User not found"))
		return
	}

	stats, err := a.userStats(ctx, user.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, objects.NewUserProfile(user, stats))
}

// Show handles GET /user/:id. The profile carries the relationship
// between the viewer and the target in both directions.
func (a *UserAPI) Show(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	userID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if user == nil {
		HandleError(c, NotFound("User not found"))
		return
	}

	stats, err := a.userStats(ctx, user.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	profile := objects.NewUserProfile(user, stats)
	if principal.UserID != user.ID {
		following, err := a.follows.Exists(ctx, principal.UserID, user.ID)
		if err != nil {
			HandleError(c, Internal(err))
			return
		}
		followedBy, err := a.follows.Exists(ctx, user.ID, principal.UserID)
		if err != nil {
			HandleError(c, Internal(err))
			return
		}
		profile.IsFollowing = &following
		profile.IsFollowedBy = &followedBy
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /user/profile. Multipart so the avatar can
// ride along; the old avatar file is removed after the new one lands.
func (a *UserAPI) UpdateProfile(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.GetByID(ctx, principal.UserID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if user == nil {
		HandleError(c, NotFound("User not found"))
		return
	}

	if name, ok := formValue(c, "name"); ok {
		name = strings.TrimSpace(name)
		if name == "" || len(name) > maxNameLength {
			HandleError(c, Validation(fmt.Sprintf("name must be between 1 and %d characters", maxNameLength)))
			return
		}
		user.Name = name
	}
	if bio, ok := formValue(c, "bio"); ok {
		if len(bio) > maxBioLength {
			HandleError(c, Validation(fmt.Sprintf("bio must be at most %d characters", maxBioLength)))
			return
		}
		user.Bio = sql.NullString{String: bio, Valid: bio != ""}
	}
	if isPrivate, ok := formValue(c, "is_private"); ok {
		v, err := strconv.ParseBool(isPrivate)
		if err != nil {
			HandleError(c, Validation("is_private must be a boolean"))
			return
		}
		user.IsPrivate = v
	}

	oldAvatar := ""
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		url, err := a.store.Upload(ctx, file, "avatars")
		if err != nil {
			HandleError(c, Internal(fmt.Errorf("avatar upload failed: %w", err)))
			return
		}
		if user.AvatarURL.Valid {
			oldAvatar = user.AvatarURL.String
		}
		user.AvatarURL = sql.NullString{String: url, Valid: true}
	}

	if err := a.users.Update(ctx, user); err != nil {
		HandleError(c, Internal(err))
		return
	}

	if oldAvatar != "" {
		if err := a.store.Delete(ctx, oldAvatar); err != nil {
			a.logger.Warn("Failed to delete old avatar", zap.String("url", oldAvatar), zap.Error(err))
		}
	}

	stats, err := a.userStats(ctx, user.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    objects.NewUserProfile(user, stats),
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// ChangePassword handles POST /user/change-password
func (a *UserAPI) ChangePassword(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, Validation(validationMessage(err)))
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.GetByID(ctx, principal.UserID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if user == nil {
		HandleError(c, NotFound("User not found"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		HandleError(c, Validation("Current password is incorrect"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	user.PasswordHash = string(hash)

	if err := a.users.Update(ctx, user); err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Follow handles POST /user/:id/follow. Self-follows are invalid and
// duplicate follows are conflicts.
func (a *UserAPI) Follow(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	if targetID == principal.UserID {
		HandleError(c, Validation("You cannot follow yourself"))
		return
	}

	ctx := c.Request.Context()
	target, err := a.users.GetByID(ctx, targetID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if target == nil {
		HandleError(c, NotFound("User not found"))
		return
	}

	exists, err := a.follows.Exists(ctx, principal.UserID, target.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if exists {
		HandleError(c, Conflict("You are already following this user"))
		return
	}

	follow := &models.Follow{FollowerID: principal.UserID, FollowingID: target.ID}
	if err := a.follows.Create(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			HandleError(c, Conflict("You are already following this user"))
			return
		}
		HandleError(c, Internal(err))
		return
	}

	a.notifyFollowed(ctx, target.ID, principal)

	count, err := a.follows.CountFollowers(ctx, target.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "User followed successfully",
		"followers_count": count,
	})
}

// Unfollow handles POST /user/:id/unfollow. Idempotent.
func (a *UserAPI) Unfollow(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	targetID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	target, err := a.users.GetByID(ctx, targetID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if target == nil {
		HandleError(c, NotFound("User not found"))
		return
	}

	if err := a.follows.Delete(ctx, principal.UserID, target.ID); err != nil {
		HandleError(c, Internal(err))
		return
	}

	count, err := a.follows.CountFollowers(ctx, target.ID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "User unfollowed successfully",
		"followers_count": count,
	})
}

// Followers handles GET /user/:id/followers
func (a *UserAPI) Followers(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	userID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	page, err := ParsePage(c, followListPerPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if user == nil {
		HandleError(c, NotFound("User not found"))
		return
	}

	follows, total, err := a.follows.ListFollowers(ctx, user.ID, page.Offset(), page.PerPage)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	cards := make([]objects.UserCard, 0, len(follows))
	for i := range follows {
		if follows[i].Follower != nil {
			cards = append(cards, objects.NewUserCard(follows[i].Follower))
		}
	}

	c.JSON(http.StatusOK, NewEnvelope(cards, total, page))
}

// Following handles GET /user/:id/following
func (a *UserAPI) Following(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	userID, err := parseID(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}

	page, err := ParsePage(c, followListPerPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}
	if user == nil {
		HandleError(c, NotFound("User not found"))
		return
	}

	follows, total, err := a.follows.ListFollowing(ctx, user.ID, page.Offset(), page.PerPage)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	cards := make([]objects.UserCard, 0, len(follows))
	for i := range follows {
		if follows[i].Following != nil {
			cards = append(cards, objects.NewUserCard(follows[i].Following))
		}
	}

	c.JSON(http.StatusOK, NewEnvelope(cards, total, page))
}

type searchRequest struct {
	Q string `form:"q" binding:"required,min=1,max=100"`
}

// Search handles GET /user/search?q=
func (a *UserAPI) Search(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}

	var req searchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleError(c, Validation(validationMessage(err)))
		return
	}

	page, err := ParsePage(c, usersPerPage)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	users, total, err := a.users.Search(ctx, req.Q, page.Offset(), page.PerPage)
	if err != nil {
		HandleError(c, Internal(err))
		return
	}

	cards := make([]objects.UserCard, 0, len(users))
	for i := range users {
		cards = append(cards, objects.NewUserCard(&users[i]))
	}

	c.JSON(http.StatusOK, NewEnvelope(cards, total, page))
}

type fcmTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

// UpdateFCMToken handles POST /update-fcm-token
func (a *UserAPI) UpdateFCMToken(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req fcmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, Validation(validationMessage(err)))
		return
	}

	if err := a.users.UpdateFCMToken(c.Request.Context(), principal.UserID, req.FCMToken); err != nil {
		HandleError(c, Internal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "FCM token updated successfully"})
}

func (a *UserAPI) userStats(ctx context.Context, userID int64) (objects.UserStats, error) {
	posts, err := a.users.CountVisiblePosts(ctx, userID)
	if err != nil {
		return objects.UserStats{}, err
	}
	followers, err := a.follows.CountFollowers(ctx, userID)
	if err != nil {
		return objects.UserStats{}, err
	}
	following, err := a.follows.CountFollowing(ctx, userID)
	if err != nil {
		return objects.UserStats{}, err
	}
	return objects.UserStats{
		PostsCount:     posts,
		FollowersCount: followers,
		FollowingCount: following,
	}, nil
}

func (a *UserAPI) notifyFollowed(ctx context.Context, userID int64, actor auth.Principal) {
	token, err := a.users.DeviceToken(ctx, userID)
	if err != nil {
		a.logger.Warn("Failed to load device token", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if token == "" {
		return
	}
	notify.Dispatch(a.sender, []string{token}, notify.Message{
		Title: "Pictora",
		Body:  "You have a new follower",
		Data:  map[string]string{"user_id": strconv.FormatInt(actor.UserID, 10)},
	})
}

// formValue reports whether the field was present in the form at all,
// so absent fields stay untouched while empty ones clear the value.
func formValue(c *gin.Context, key string) (string, bool) {
	if values, ok := c.GetPostFormArray(key); ok && len(values) > 0 {
		return values[0], true
	}
	return "", false
}
