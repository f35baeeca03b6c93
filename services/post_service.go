package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/picshare/picshare-backend/errs"
	"github.com/picshare/picshare-backend/models"
	"github.com/picshare/picshare-backend/storage"
)

// LikeAction selects between liking and unliking a post.
type LikeAction string

const (
	LikeActionLike   LikeAction = "Like"
	LikeActionUnlike LikeAction = "Unlike"
)

// ParseLikeAction validates the like_action query value.
func ParseLikeAction(value string) (LikeAction, error) {
	switch LikeAction(value) {
	case LikeActionLike, LikeActionUnlike:
		return LikeAction(value), nil
	default:
		return "", errs.NewValidationError("like_action", "must be 'Like' or 'Unlike'")
	}
}

// PostService owns the post lifecycle: creation with image upload, likes,
// comments, owner-gated updates and deletion.
type PostService struct {
	posts    PostStore
	tags     *TagService
	images   storage.ImageStore
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewPostService(posts PostStore, tags *TagService, images storage.ImageStore) *PostService {
	return &PostService{
		posts:    posts,
		tags:     tags,
		images:   images,
		validate: validator.New(),
		logger:   log.With().Str("serviceName", "postService").Logger(),
	}
}

// Get returns the post with the given id, or a not-found error.
func (s *PostService) Get(id uuid.UUID) (*models.Post, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	if post == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("The post with id: %s cannot be found!", id))
	}
	return post, nil
}

// Create stores the uploaded image and persists a new post referencing it.
// The id is generated up front so the image can be written before the row is
// committed; a failed insert removes the blob again rather than leaving it
// orphaned.
func (s *PostService) Create(ctx context.Context, req models.CreatePostRequest, filename string, file io.Reader) (*models.Post, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fieldValidationError(err)
	}

	tags, err := s.tags.ResolveOrCreate(req.Tags)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := fmt.Sprintf("%s_%s", id, filename)

	imagePath, err := s.images.Save(ctx, key, file)
	if err != nil {
		return nil, errs.NewStorageError("upload", key, err)
	}

	now := time.Now()
	post := &models.Post{
		ID:        id,
		Image:     imagePath,
		Caption:   req.Caption,
		Likes:     0,
		Comments:  datatypes.JSONSlice[int64]{},
		Published: req.Published,
		OwnerID:   req.OwnerID,
		CreatedOn: now,
		UpdatedOn: now,
	}
	if req.Published {
		post.PublishedOn = now
	} else {
		post.PublishedOn = models.UnsetTime
	}

	if err := s.posts.Add(post); err != nil {
		if removeErr := s.images.Remove(ctx, key); removeErr != nil {
			s.logger.Error().Err(removeErr).Str("key", key).Msg("failed to remove image after aborted create")
		}
		return nil, errs.NewDatabaseError("create", "post", err)
	}

	if len(tags) > 0 {
		if err := s.posts.ReplaceTags(post, tags); err != nil {
			return nil, errs.NewDatabaseError("link tags to", "post", err)
		}
		post.Tags = tags
	}

	s.logger.Info().Str("postId", post.ID.String()).Int64("ownerId", post.OwnerID).Msg("post created")
	return post, nil
}

// LikeUnlike adjusts the like counter. Unliking a post with no likes is a
// no-op that returns the post unchanged, keeping the counter at zero.
func (s *PostService) LikeUnlike(id uuid.UUID, action LikeAction) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if action == LikeActionUnlike && post.Likes <= 0 {
		return post, nil
	}

	delta := 1
	if action == LikeActionUnlike {
		delta = -1
	}
	if err := s.posts.AdjustLikes(id, delta); err != nil {
		return nil, errs.NewDatabaseError("update likes of", "post", err)
	}

	return s.Get(id)
}

// AddComment attaches a comment id to the post. Adding an id that is already
// present is a no-op.
func (s *PostService) AddComment(id uuid.UUID, commentID int64) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if post.HasComment(commentID) {
		return post, nil
	}

	post.Comments = append(post.Comments, commentID)
	post.UpdatedOn = time.Now()
	if err := s.posts.Update(post); err != nil {
		return nil, errs.NewDatabaseError("update comments of", "post", err)
	}
	return post, nil
}

// RemoveComment detaches a comment id from the post. Removing an absent id is
// a no-op.
func (s *PostService) RemoveComment(id uuid.UUID, commentID int64) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !post.HasComment(commentID) {
		return post, nil
	}

	remaining := make(datatypes.JSONSlice[int64], 0, len(post.Comments))
	for _, existing := range post.Comments {
		if existing != commentID {
			remaining = append(remaining, existing)
		}
	}
	post.Comments = remaining
	post.UpdatedOn = time.Now()
	if err := s.posts.Update(post); err != nil {
		return nil, errs.NewDatabaseError("update comments of", "post", err)
	}
	return post, nil
}

// RemoveAllComments clears the post's comment list.
func (s *PostService) RemoveAllComments(id uuid.UUID) (*models.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if len(post.Comments) == 0 {
		return post, nil
	}

	post.Comments = datatypes.JSONSlice[int64]{}
	post.UpdatedOn = time.Now()
	if err := s.posts.Update(post); err != nil {
		return nil, errs.NewDatabaseError("update comments of", "post", err)
	}
	return post, nil
}

// Update applies caption, tag and publish changes on behalf of the owner.
// updated_on only advances when a field actually changes value; a post that
// is already published and receives neither a caption nor a tag change is
// returned as-is without touching the datastore.
func (s *PostService) Update(id uuid.UUID, userID int64, req models.UpdatePostRequest) (*models.Post, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fieldValidationError(err)
	}

	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if userID != post.OwnerID {
		return nil, errs.NewForbiddenError(fmt.Sprintf("User %d is not the owner of the post with id: %s!", userID, id))
	}

	if post.Published && req.Caption == nil && req.Tags == nil {
		return post, nil
	}

	changed := false

	if req.Caption != nil && *req.Caption != post.Caption {
		post.Caption = *req.Caption
		changed = true
	}

	tagsChanged := false
	var newTags []models.Tag
	if req.Tags != nil {
		newTags, err = s.tags.ResolveOrCreate(*req.Tags)
		if err != nil {
			return nil, err
		}
		if !sameTagSet(post.Tags, newTags) {
			tagsChanged = true
			changed = true
		}
	}

	now := time.Now()
	if !post.Published && req.Published != nil && *req.Published {
		post.Published = true
		post.PublishedOn = now
		changed = true
	}

	if !changed {
		return post, nil
	}

	post.UpdatedOn = now
	if err := s.posts.Update(post); err != nil {
		return nil, errs.NewDatabaseError("update", "post", err)
	}
	if tagsChanged {
		if err := s.posts.ReplaceTags(post, newTags); err != nil {
			return nil, errs.NewDatabaseError("link tags to", "post", err)
		}
		post.Tags = newTags
	}

	return post, nil
}

// Delete hard-deletes the post and its image blob on behalf of the owner.
// Removal of the blob after the row is gone is best-effort; a failure there
// is logged, not surfaced, since the post itself no longer exists.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID, userID int64) error {
	post, err := s.Get(id)
	if err != nil {
		return err
	}

	if userID != post.OwnerID {
		return errs.NewForbiddenError(fmt.Sprintf("User %d is not the owner of the post with id: %s!", userID, id))
	}

	if err := s.posts.Delete(id); err != nil {
		return errs.NewDeletionFailedError(fmt.Sprintf("Could not delete the post with id: %s!", id), err)
	}

	if post.Image != "" {
		key := path.Base(post.Image)
		if err := s.images.Remove(ctx, key); err != nil {
			s.logger.Error().Err(err).Str("key", key).Msg("failed to remove image of deleted post")
		}
	}

	s.logger.Info().Str("postId", id.String()).Msg("post deleted")
	return nil
}

// sameTagSet compares two tag lists by slug, ignoring order.
func sameTagSet(a []models.Tag, b []models.Tag) bool {
	if len(a) != len(b) {
		return false
	}
	slugs := make(map[string]bool, len(a))
	for _, tag := range a {
		slugs[tag.Slug] = true
	}
	for _, tag := range b {
		if !slugs[tag.Slug] {
			return false
		}
	}
	return true
}
