package services

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picshare/picshare-backend/errs"
	"github.com/picshare/picshare-backend/models"
)

// TagService owns tag lookup, creation and deletion. Tags are addressed
// externally by slug, the lowercase form of the display name.
type TagService struct {
	tags     TagStore
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewTagService(tags TagStore) *TagService {
	return &TagService{
		tags:     tags,
		validate: validator.New(),
		logger:   log.With().Str("serviceName", "tagService").Logger(),
	}
}

// List returns all tags with their posts.
func (s *TagService) List() ([]*models.Tag, error) {
	tags, err := s.tags.FindAll()
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tags", err)
	}
	return tags, nil
}

// GetBySlug returns the tag with the given slug, or a not-found error.
func (s *TagService) GetBySlug(slug string) (*models.Tag, error) {
	tag, err := s.tags.FindBySlug(slug)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	if tag == nil {
		return nil, errs.NewNotFoundError(fmt.Sprintf("The tag with slug: %s cannot be found!", slug))
	}
	return tag, nil
}

// Search returns tags whose slug contains the given term. The term must be at
// least as long as a valid tag name.
func (s *TagService) Search(term string) ([]*models.Tag, error) {
	if len(term) < models.TagNameMinLength {
		return nil, errs.NewValidationError("chars", fmt.Sprintf("must be at least %d characters long", models.TagNameMinLength))
	}

	tags, err := s.tags.SearchBySlug(term)
	if err != nil {
		return nil, errs.NewDatabaseError("search", "tags", err)
	}
	return tags, nil
}

// Create registers a new tag. Creation is rejected in favor of an existing tag
// carrying the same slug.
func (s *TagService) Create(req models.CreateTagRequest) (*models.Tag, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fieldValidationError(err)
	}

	slug := models.Slugify(req.Name)

	existing, err := s.tags.FindBySlug(slug)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "tag", err)
	}
	if existing != nil {
		return nil, errs.NewAlreadyExistsError(fmt.Sprintf("Tag %s already registered", req.Name))
	}

	tag := &models.Tag{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      slug,
		CreatedOn: time.Now(),
	}
	if err := s.tags.Add(tag); err != nil {
		return nil, errs.NewDatabaseError("create", "tag", err)
	}

	s.logger.Info().Str("slug", tag.Slug).Msg("tag created")
	return tag, nil
}

// ResolveOrCreate maps tag display names to tag entities, reusing existing
// tags by slug and creating the rest. Resolution is sequential so the same
// slug is never created twice within one call.
func (s *TagService) ResolveOrCreate(names []string) ([]models.Tag, error) {
	resolved := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))

	for _, name := range names {
		if len(name) < models.TagNameMinLength {
			return nil, errs.NewValidationError("name", fmt.Sprintf("must be at least %d characters long", models.TagNameMinLength))
		}

		slug := models.Slugify(name)
		if seen[slug] {
			continue
		}
		seen[slug] = true

		tag, err := s.tags.FindBySlug(slug)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "tag", err)
		}

		if tag == nil {
			tag = &models.Tag{
				ID:        uuid.New(),
				Name:      name,
				Slug:      slug,
				CreatedOn: time.Now(),
			}
			if err := s.tags.Add(tag); err != nil {
				return nil, errs.NewDatabaseError("create", "tag", err)
			}
		}

		resolved = append(resolved, *tag)
	}

	return resolved, nil
}

// DeleteBySlug removes the tag with the given slug. Tags are never deleted
// automatically with their last post; this is the only removal path.
func (s *TagService) DeleteBySlug(slug string) error {
	tag, err := s.tags.FindBySlug(slug)
	if err != nil {
		return errs.NewDatabaseError("find", "tag", err)
	}
	if tag == nil {
		return errs.NewNotFoundError(fmt.Sprintf("The tag with slug: %s cannot be found!", slug))
	}

	if err := s.tags.Delete(tag); err != nil {
		return errs.NewDeletionFailedError(fmt.Sprintf("Could not delete the tag with slug: %s!", slug), err)
	}

	s.logger.Info().Str("slug", tag.Slug).Msg("tag deleted")
	return nil
}
