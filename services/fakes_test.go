package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/picshare/picshare-backend/models"
)

// fakePostStore keeps posts in insertion order, mimicking the datastore's
// natural order.
type fakePostStore struct {
	posts   []*models.Post
	failAdd bool
}

func (s *fakePostStore) FindAll() ([]*models.Post, error) {
	return append([]*models.Post{}, s.posts...), nil
}

func (s *fakePostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	for _, post := range s.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return nil, nil
}

func (s *fakePostStore) FindByOwner(ownerID int64) ([]*models.Post, error) {
	var owned []*models.Post
	for _, post := range s.posts {
		if post.OwnerID == ownerID {
			owned = append(owned, post)
		}
	}
	return owned, nil
}

func (s *fakePostStore) Add(post *models.Post) error {
	if s.failAdd {
		return errors.New("insert failed")
	}
	s.posts = append(s.posts, post)
	return nil
}

func (s *fakePostStore) Update(post *models.Post) error {
	for i, existing := range s.posts {
		if existing.ID == post.ID {
			s.posts[i] = post
			return nil
		}
	}
	return errors.New("post not found")
}

func (s *fakePostStore) ReplaceTags(post *models.Post, tags []models.Tag) error {
	post.Tags = tags
	return nil
}

func (s *fakePostStore) AdjustLikes(id uuid.UUID, delta int) error {
	for _, post := range s.posts {
		if post.ID == id {
			post.Likes += delta
			return nil
		}
	}
	return errors.New("post not found")
}

func (s *fakePostStore) Delete(id uuid.UUID) error {
	for i, post := range s.posts {
		if post.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeTagStore struct {
	tags    []*models.Tag
	failAdd bool
	adds    int
}

func (s *fakeTagStore) FindAll() ([]*models.Tag, error) {
	return append([]*models.Tag{}, s.tags...), nil
}

func (s *fakeTagStore) FindBySlug(slug string) (*models.Tag, error) {
	for _, tag := range s.tags {
		if tag.Slug == models.Slugify(slug) {
			return tag, nil
		}
	}
	return nil, nil
}

func (s *fakeTagStore) SearchBySlug(term string) ([]*models.Tag, error) {
	var found []*models.Tag
	for _, tag := range s.tags {
		if strings.Contains(tag.Slug, models.Slugify(term)) {
			found = append(found, tag)
		}
	}
	return found, nil
}

func (s *fakeTagStore) Add(tag *models.Tag) error {
	if s.failAdd {
		return errors.New("insert failed")
	}
	s.adds++
	s.tags = append(s.tags, tag)
	return nil
}

func (s *fakeTagStore) Delete(tag *models.Tag) error {
	for i, existing := range s.tags {
		if existing.ID == tag.ID {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeImageStore records uploads and removals in memory.
type fakeImageStore struct {
	saved    map[string][]byte
	removed  []string
	failSave bool
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{saved: make(map[string][]byte)}
}

func (s *fakeImageStore) Save(_ context.Context, key string, contents io.Reader) (string, error) {
	if s.failSave {
		return "", errors.New("disk full")
	}
	data, err := io.ReadAll(contents)
	if err != nil {
		return "", err
	}
	s.saved[key] = data
	return "images/" + key, nil
}

func (s *fakeImageStore) Remove(_ context.Context, key string) error {
	delete(s.saved, key)
	s.removed = append(s.removed, key)
	return nil
}

func newTestTag(name string, createdOn time.Time) *models.Tag {
	return &models.Tag{
		ID:        uuid.New(),
		Name:      name,
		Slug:      models.Slugify(name),
		CreatedOn: createdOn,
	}
}

func newTestPost(ownerID int64, createdOn time.Time, tags ...models.Tag) *models.Post {
	id := uuid.New()
	return &models.Post{
		ID:        id,
		Image:     fmt.Sprintf("images/%s_photo.jpg", id),
		Likes:     0,
		OwnerID:   ownerID,
		CreatedOn: createdOn,
		UpdatedOn: createdOn,
		Tags:      tags,
	}
}

// attach wires the post into each tag's post list, mirroring what the join
// table preload does in the real repository.
func attach(tags *fakeTagStore, post *models.Post) {
	for _, postTag := range post.Tags {
		for _, tag := range tags.tags {
			if tag.Slug == postTag.Slug {
				tag.Posts = append(tag.Posts, *post)
			}
		}
	}
}
