package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TagNameMinLength is the minimum length of a tag display name (and of a tag
// search term).
const TagNameMinLength = 3

// Tag represents a label attached to posts, addressed externally by its slug
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;unique"`
	Slug      string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	CreatedOn time.Time `json:"createdOn" db:"created_on" gorm:"type:timestamp;not null"`
	Posts     []Post    `json:"posts,omitempty" gorm:"many2many:post_tags"`
}

// Slugify returns the lookup key for a tag display name.
func Slugify(name string) string {
	return strings.ToLower(name)
}

// CreateTagRequest carries the JSON body of a tag creation request
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=3"`
}
