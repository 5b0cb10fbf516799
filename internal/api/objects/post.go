package objects

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pictora/pictora/internal/auth"
	"github.com/pictora/pictora/internal/cache"
	"github.com/pictora/pictora/internal/db"
	"github.com/pictora/pictora/internal/models"
	"github.com/pictora/pictora/pkg/logging"
)

// MediaView is the media projection inside a post
type MediaView struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	URL       string  `json:"url"`
	Thumbnail *string `json:"thumbnail"`
}

// PostView is the post projection returned by feeds and post reads
type PostView struct {
	ID         int64                   `json:"id"`
	User       UserCard                `json:"user"`
	Caption    string                  `json:"caption"`
	Media      []MediaView             `json:"media"`
	Engagement models.EngagementCounts `json:"engagement"`
	IsLiked    bool                    `json:"is_liked"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// PostLoader builds post projections, computing engagement counts on
// demand with an optional cache in front.
type PostLoader struct {
	engagement *db.EngagementRepository
	comments   *db.CommentRepository
	cache      *cache.Cache
	logger     *zap.Logger
}

// NewPostLoader creates a new post loader
func NewPostLoader(repo *db.Repository, redisCache *cache.Cache) *PostLoader {
	return &PostLoader{
		engagement: db.NewEngagementRepository(repo),
		comments:   db.NewCommentRepository(repo),
		cache:      redisCache,
		logger:     logging.WithComponent("post-loader"),
	}
}

// Counts returns a post's engagement counts, serving from cache when
// possible. Counts are always derived from the join tables; the cache
// only fronts them and is invalidated on every engagement write.
func (l *PostLoader) Counts(ctx context.Context, postID int64) (models.EngagementCounts, error) {
	if cached, err := l.cache.GetCounts(postID); err == nil {
		return *cached, nil
	}

	var counts models.EngagementCounts
	var err error

	if counts.LikesCount, err = l.engagement.CountLikes(ctx, postID); err != nil {
		return counts, err
	}
	if counts.CommentsCount, err = l.comments.CountForPost(ctx, postID); err != nil {
		return counts, err
	}
	if counts.SharesCount, err = l.engagement.CountShares(ctx, postID); err != nil {
		return counts, err
	}
	if counts.ViewsCount, err = l.engagement.CountViews(ctx, postID); err != nil {
		return counts, err
	}

	if err := l.cache.SetCounts(postID, &counts); err != nil && err != cache.ErrCacheDisabled {
		l.logger.Warn("Failed to cache counts", zap.Int64("post_id", postID), zap.Error(err))
	}
	return counts, nil
}

// InvalidateCounts drops a post's cached counts after an engagement write
func (l *PostLoader) InvalidateCounts(postID int64) {
	if err := l.cache.InvalidateCounts(postID); err != nil && err != cache.ErrCacheDisabled {
		l.logger.Warn("Failed to invalidate counts", zap.Int64("post_id", postID), zap.Error(err))
	}
}

// BuildPost projects one post, with is_liked computed for the viewer.
// Unauthenticated viewers always see is_liked = false.
func (l *PostLoader) BuildPost(ctx context.Context, post *models.Post, viewer *auth.Principal) (*PostView, error) {
	counts, err := l.Counts(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	isLiked := false
	if viewer != nil {
		isLiked, err = l.engagement.LikeExists(ctx, viewer.UserID, post.ID)
		if err != nil {
			return nil, err
		}
	}

	view := &PostView{
		ID:         post.ID,
		Caption:    post.Caption,
		Media:      BuildMedia(post.Media),
		Engagement: counts,
		IsLiked:    isLiked,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
	if post.User != nil {
		view.User = NewUserCard(post.User)
	}
	return view, nil
}

// BuildPosts projects a page of posts in order
func (l *PostLoader) BuildPosts(ctx context.Context, posts []models.Post, viewer *auth.Principal) ([]PostView, error) {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		view, err := l.BuildPost(ctx, &posts[i], viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// BuildMedia projects a post's media list, preserving display order
func BuildMedia(media []models.PostMedia) []MediaView {
	views := make([]MediaView, 0, len(media))
	for i := range media {
		m := &media[i]
		view := MediaView{
			ID:   m.ID,
			Type: m.MediaType,
			URL:  m.MediaURL,
		}
		if m.ThumbnailURL.Valid {
			view.Thumbnail = &m.ThumbnailURL.String
		}
		views = append(views, view)
	}
	return views
}
