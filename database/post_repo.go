package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/picshare/picshare-backend/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// FindAll returns all posts in the datastore's natural order
func (r *PostRepo) FindAll() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Preload("Tags").Find(&posts).Error
	return posts, err
}

// FindByID returns a post by its ID, or (nil, nil) when it does not exist
func (r *PostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Tags").First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// FindByOwner returns all posts belonging to a single owner
func (r *PostRepo) FindByOwner(ownerID int64) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Preload("Tags").Where("owner_id = ?", ownerID).Find(&posts).Error
	return posts, err
}

// Add inserts a new post into the database
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update persists the post's scalar columns
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Omit(clause.Associations).Save(post).Error
}

// ReplaceTags swaps the post's tag set through the post_tags join table
func (r *PostRepo) ReplaceTags(post *models.Post, tags []models.Tag) error {
	return r.db.Model(post).Association("Tags").Replace(tags)
}

// AdjustLikes applies an atomic counter change to the post's likes column.
// The floor at zero is enforced by the caller, not here.
func (r *PostRepo) AdjustLikes(id uuid.UUID, delta int) error {
	return r.db.Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", delta)).Error
}

// Delete removes a post and its join-table rows from the database by id
func (r *PostRepo) Delete(id uuid.UUID) error {
	return r.db.Select(clause.Associations).Delete(&models.Post{ID: id}).Error
}
