package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/picshare/picshare-backend/errs"
	"github.com/picshare/picshare-backend/models"
)

// PostStore is the slice of the post repository the services depend on.
// *database.PostRepo satisfies it; tests plug in in-memory fakes.
type PostStore interface {
	FindAll() ([]*models.Post, error)
	FindByID(id uuid.UUID) (*models.Post, error)
	FindByOwner(ownerID int64) ([]*models.Post, error)
	Add(post *models.Post) error
	Update(post *models.Post) error
	ReplaceTags(post *models.Post, tags []models.Tag) error
	AdjustLikes(id uuid.UUID, delta int) error
	Delete(id uuid.UUID) error
}

// TagStore is the slice of the tag repository the services depend on.
type TagStore interface {
	FindAll() ([]*models.Tag, error)
	FindBySlug(slug string) (*models.Tag, error)
	SearchBySlug(term string) ([]*models.Tag, error)
	Add(tag *models.Tag) error
	Delete(tag *models.Tag) error
}

// fieldValidationError converts a go-playground validation failure into the
// API's 422 shape, keeping the offending field name.
func fieldValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errs.NewValidationError(strings.ToLower(fe.Field()), fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
	}
	return errs.NewBadRequestError(err.Error())
}
