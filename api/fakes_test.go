package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/picshare/picshare-backend/models"
)

type memPostStore struct {
	posts []*models.Post
}

func (s *memPostStore) FindAll() ([]*models.Post, error) {
	return append([]*models.Post{}, s.posts...), nil
}

func (s *memPostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	for _, post := range s.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return nil, nil
}

func (s *memPostStore) FindByOwner(ownerID int64) ([]*models.Post, error) {
	var owned []*models.Post
	for _, post := range s.posts {
		if post.OwnerID == ownerID {
			owned = append(owned, post)
		}
	}
	return owned, nil
}

func (s *memPostStore) Add(post *models.Post) error {
	s.posts = append(s.posts, post)
	return nil
}

func (s *memPostStore) Update(post *models.Post) error {
	for i, existing := range s.posts {
		if existing.ID == post.ID {
			s.posts[i] = post
			return nil
		}
	}
	return errors.New("post not found")
}

func (s *memPostStore) ReplaceTags(post *models.Post, tags []models.Tag) error {
	post.Tags = tags
	return nil
}

func (s *memPostStore) AdjustLikes(id uuid.UUID, delta int) error {
	for _, post := range s.posts {
		if post.ID == id {
			post.Likes += delta
			return nil
		}
	}
	return errors.New("post not found")
}

func (s *memPostStore) Delete(id uuid.UUID) error {
	for i, post := range s.posts {
		if post.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

type memTagStore struct {
	tags []*models.Tag
}

func (s *memTagStore) FindAll() ([]*models.Tag, error) {
	return append([]*models.Tag{}, s.tags...), nil
}

func (s *memTagStore) FindBySlug(slug string) (*models.Tag, error) {
	for _, tag := range s.tags {
		if tag.Slug == models.Slugify(slug) {
			return tag, nil
		}
	}
	return nil, nil
}

func (s *memTagStore) SearchBySlug(term string) ([]*models.Tag, error) {
	var found []*models.Tag
	for _, tag := range s.tags {
		if strings.Contains(tag.Slug, models.Slugify(term)) {
			found = append(found, tag)
		}
	}
	return found, nil
}

func (s *memTagStore) Add(tag *models.Tag) error {
	s.tags = append(s.tags, tag)
	return nil
}

func (s *memTagStore) Delete(tag *models.Tag) error {
	for i, existing := range s.tags {
		if existing.ID == tag.ID {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return nil
		}
	}
	return nil
}

type memImageStore struct {
	saved map[string][]byte
}

func newMemImageStore() *memImageStore {
	return &memImageStore{saved: make(map[string][]byte)}
}

func (s *memImageStore) Save(_ context.Context, key string, contents io.Reader) (string, error) {
	data, err := io.ReadAll(contents)
	if err != nil {
		return "", err
	}
	s.saved[key] = data
	return "images/" + key, nil
}

func (s *memImageStore) Remove(_ context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

func seedPost(store *memPostStore, ownerID int64, createdOn time.Time, tags ...models.Tag) *models.Post {
	id := uuid.New()
	post := &models.Post{
		ID:        id,
		Image:     "images/" + id.String() + "_photo.jpg",
		OwnerID:   ownerID,
		CreatedOn: createdOn,
		UpdatedOn: createdOn,
		Tags:      tags,
	}
	store.posts = append(store.posts, post)
	return post
}

func seedTag(store *memTagStore, name string) *models.Tag {
	tag := &models.Tag{
		ID:        uuid.New(),
		Name:      name,
		Slug:      models.Slugify(name),
		CreatedOn: time.Now(),
	}
	store.tags = append(store.tags, tag)
	return tag
}
