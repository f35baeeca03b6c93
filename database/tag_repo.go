package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/picshare/picshare-backend/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags with their posts
func (r *TagRepo) FindAll() ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Preload("Posts").Find(&tags).Error
	return tags, err
}

// FindBySlug returns the tag with the given slug and its posts, or (nil, nil)
// when no such tag exists
func (r *TagRepo) FindBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Preload("Posts.Tags").First(&tag, "slug = ?", strings.ToLower(slug)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

// SearchBySlug returns tags whose slug contains the given term
func (r *TagRepo) SearchBySlug(term string) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Where("slug LIKE ?", "%"+strings.ToLower(term)+"%").Find(&tags).Error
	return tags, err
}

// Add inserts a new tag into the database
func (r *TagRepo) Add(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

// Delete removes a tag and its join-table rows from the database
func (r *TagRepo) Delete(tag *models.Tag) error {
	return r.db.Select(clause.Associations).Delete(tag).Error
}
