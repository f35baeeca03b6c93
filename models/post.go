package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UnsetTime is the sentinel stored in published_on until a post is first
// published.
var UnsetTime = time.Time{}

// Post represents a shared photo with its caption, tags and engagement counters
type Post struct {
	ID          uuid.UUID                  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Image       string                     `json:"image" db:"image" gorm:"type:text;not null"`
	Caption     string                     `json:"caption" db:"caption" gorm:"type:text"`
	Likes       int                        `json:"likes" db:"likes" gorm:"type:integer;not null;default:0"`
	Comments    datatypes.JSONSlice[int64] `json:"comments" db:"comments" gorm:"type:jsonb"`
	Published   bool                       `json:"published" db:"published" gorm:"not null;default:false"`
	PublishedOn time.Time                  `json:"publishedOn" db:"published_on" gorm:"type:timestamp"`
	OwnerID     int64                      `json:"ownerId" db:"owner_id" gorm:"type:bigint;not null;index"`
	CreatedOn   time.Time                  `json:"createdOn" db:"created_on" gorm:"type:timestamp;not null"`
	UpdatedOn   time.Time                  `json:"updatedOn" db:"updated_on" gorm:"type:timestamp;not null"`
	Tags        []Tag                      `json:"tags,omitempty" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
}

// HasTag reports whether the post carries a tag with the given slug.
func (p *Post) HasTag(slug string) bool {
	for _, tag := range p.Tags {
		if tag.Slug == slug {
			return true
		}
	}
	return false
}

// HasComment reports whether the comment id is already attached to the post.
func (p *Post) HasComment(commentID int64) bool {
	for _, id := range p.Comments {
		if id == commentID {
			return true
		}
	}
	return false
}

// CreatePostRequest carries the multipart form fields of a post creation
// request. The image file itself travels separately.
type CreatePostRequest struct {
	Caption   string   `json:"caption"`
	Tags      []string `json:"tags" validate:"omitempty,dive,min=3"`
	Published bool     `json:"published"`
	OwnerID   int64    `json:"ownerId" validate:"required,gt=0"`
}

// UpdatePostRequest carries the JSON body of a post update. Nil fields are
// left untouched.
type UpdatePostRequest struct {
	Caption   *string   `json:"caption" validate:"omitempty"`
	Tags      *[]string `json:"tags" validate:"omitempty,dive,min=3"`
	Published *bool     `json:"published"`
}
