package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/picshare/picshare-backend/errs"
	"github.com/picshare/picshare-backend/models"
)

func newTestPostService(t *testing.T) (*PostService, *fakePostStore, *fakeTagStore, *fakeImageStore) {
	t.Helper()

	posts := &fakePostStore{}
	tags := &fakeTagStore{}
	images := newFakeImageStore()
	service := NewPostService(posts, NewTagService(tags), images)
	return service, posts, tags, images
}

func createTestPost(t *testing.T, service *PostService, req models.CreatePostRequest) *models.Post {
	t.Helper()

	post, err := service.Create(context.Background(), req, "photo.jpg", strings.NewReader("jpegbytes"))
	assert.NilError(t, err)
	return post
}

func TestCreatePostUnpublished(t *testing.T) {
	service, _, _, images := newTestPostService(t)

	post := createTestPost(t, service, models.CreatePostRequest{
		Caption: "first snow",
		OwnerID: 1,
	})

	assert.Equal(t, post.OwnerID, int64(1))
	assert.Equal(t, post.Likes, 0)
	assert.Equal(t, len(post.Comments), 0)
	assert.Equal(t, post.Published, false)
	assert.Assert(t, post.CreatedOn.Equal(post.UpdatedOn))
	assert.Assert(t, post.PublishedOn.Equal(models.UnsetTime))

	// The blob is keyed by the pre-generated post id
	key := post.ID.String() + "_photo.jpg"
	assert.Equal(t, post.Image, "images/"+key)
	assert.DeepEqual(t, images.saved[key], []byte("jpegbytes"))
}

func TestCreatePostPublishedSetsPublishedOn(t *testing.T) {
	service, _, _, _ := newTestPostService(t)

	post := createTestPost(t, service, models.CreatePostRequest{
		OwnerID:   1,
		Published: true,
	})

	assert.Assert(t, post.CreatedOn.Equal(post.UpdatedOn))
	assert.Assert(t, post.PublishedOn.Equal(post.CreatedOn))
}

func TestCreatePostResolvesAndCreatesTags(t *testing.T) {
	service, _, tags, _ := newTestPostService(t)
	existing := newTestTag("sunset", time.Now())
	tags.tags = append(tags.tags, existing)

	post := createTestPost(t, service, models.CreatePostRequest{
		OwnerID: 1,
		Tags:    []string{"Sunset", "Beach"},
	})

	assert.Equal(t, len(post.Tags), 2)
	assert.Equal(t, post.Tags[0].ID, existing.ID)
	assert.Equal(t, post.Tags[1].Slug, "beach")
}

func TestCreatePostRejectsNonPositiveOwner(t *testing.T) {
	service, posts, _, images := newTestPostService(t)

	_, err := service.Create(context.Background(), models.CreatePostRequest{OwnerID: 0},
		"photo.jpg", strings.NewReader("jpegbytes"))
	assert.Assert(t, errs.IsValidation(err))
	assert.Equal(t, len(posts.posts), 0)
	assert.Equal(t, len(images.saved), 0)
}

func TestCreatePostUploadFailureAbortsCreate(t *testing.T) {
	service, posts, _, images := newTestPostService(t)
	images.failSave = true

	_, err := service.Create(context.Background(), models.CreatePostRequest{OwnerID: 1},
		"photo.jpg", strings.NewReader("jpegbytes"))
	assert.Assert(t, errs.IsStorage(err))
	assert.Equal(t, len(posts.posts), 0)
}

func TestCreatePostInsertFailureRemovesBlob(t *testing.T) {
	service, posts, _, images := newTestPostService(t)
	posts.failAdd = true

	_, err := service.Create(context.Background(), models.CreatePostRequest{OwnerID: 1},
		"photo.jpg", strings.NewReader("jpegbytes"))
	assert.Assert(t, err != nil)
	assert.Equal(t, len(images.saved), 0)
	assert.Equal(t, len(images.removed), 1)
}

func TestLikeUnlikeScenario(t *testing.T) {
	service, _, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1})

	for i := 0; i < 9; i++ {
		_, err := service.LikeUnlike(post.ID, LikeActionLike)
		assert.NilError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := service.LikeUnlike(post.ID, LikeActionUnlike)
		assert.NilError(t, err)
	}

	fetched, err := service.Get(post.ID)
	assert.NilError(t, err)
	assert.Equal(t, fetched.Likes, 7)
}

func TestUnlikeAtZeroIsNoOp(t *testing.T) {
	service, _, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1})

	updated, err := service.LikeUnlike(post.ID, LikeActionUnlike)
	assert.NilError(t, err)
	assert.Equal(t, updated.Likes, 0)

	// like then unlike returns to the prior count
	_, err = service.LikeUnlike(post.ID, LikeActionLike)
	assert.NilError(t, err)
	updated, err = service.LikeUnlike(post.ID, LikeActionUnlike)
	assert.NilError(t, err)
	assert.Equal(t, updated.Likes, 0)
}

func TestLikeUnlikeMissingPost(t *testing.T) {
	service, _, _, _ := newTestPostService(t)

	_, err := service.LikeUnlike(newTestPost(1, time.Now()).ID, LikeActionLike)
	assert.Assert(t, errs.IsNotFound(err))
}

func TestCommentsAddRemoveSemantics(t *testing.T) {
	service, _, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1})

	updated, err := service.AddComment(post.ID, 42)
	assert.NilError(t, err)
	assert.DeepEqual(t, []int64(updated.Comments), []int64{42})

	// adding the same id twice keeps it exactly once
	updated, err = service.AddComment(post.ID, 42)
	assert.NilError(t, err)
	assert.DeepEqual(t, []int64(updated.Comments), []int64{42})

	updated, err = service.AddComment(post.ID, 7)
	assert.NilError(t, err)
	assert.DeepEqual(t, []int64(updated.Comments), []int64{42, 7})

	// removing an absent id is a no-op
	updated, err = service.RemoveComment(post.ID, 99)
	assert.NilError(t, err)
	assert.DeepEqual(t, []int64(updated.Comments), []int64{42, 7})

	updated, err = service.RemoveComment(post.ID, 42)
	assert.NilError(t, err)
	assert.DeepEqual(t, []int64(updated.Comments), []int64{7})

	updated, err = service.RemoveAllComments(post.ID)
	assert.NilError(t, err)
	assert.Equal(t, len(updated.Comments), 0)

	// clearing an already-empty list stays empty
	updated, err = service.RemoveAllComments(post.ID)
	assert.NilError(t, err)
	assert.Equal(t, len(updated.Comments), 0)
}

func TestCommentChangesAdvanceUpdatedOn(t *testing.T) {
	service, _, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1})
	createdOn := post.CreatedOn

	updated, err := service.AddComment(post.ID, 1)
	assert.NilError(t, err)
	assert.Assert(t, !updated.UpdatedOn.Before(createdOn))

	// a no-op add leaves updated_on alone
	before := updated.UpdatedOn
	updated, err = service.AddComment(post.ID, 1)
	assert.NilError(t, err)
	assert.Assert(t, updated.UpdatedOn.Equal(before))
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	service, _, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1, Caption: "before"})

	caption := "after"
	_, err := service.Update(post.ID, 2, models.UpdatePostRequest{Caption: &caption})
	assert.Assert(t, errs.IsForbidden(err))

	fetched, err := service.Get(post.ID)
	assert.NilError(t, err)
	assert.Equal(t, fetched.Caption, "before")
}

func TestUpdateCaptionAndPublish(t *testing.T) {
	service, _, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1, Caption: "before"})

	caption := "after"
	published := true
	updated, err := service.Update(post.ID, 1, models.UpdatePostRequest{
		Caption:   &caption,
		Published: &published,
	})
	assert.NilError(t, err)
	assert.Equal(t, updated.Caption, "after")
	assert.Equal(t, updated.Published, true)
	assert.Assert(t, updated.PublishedOn.Equal(updated.UpdatedOn))
	assert.Assert(t, !updated.PublishedOn.Equal(models.UnsetTime))
}

func TestUpdatePublishedOnIsSetOnlyOnce(t *testing.T) {
	service, _, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1, Published: true})
	publishedOn := post.PublishedOn

	caption := "new caption"
	published := true
	updated, err := service.Update(post.ID, 1, models.UpdatePostRequest{
		Caption:   &caption,
		Published: &published,
	})
	assert.NilError(t, err)
	assert.Assert(t, updated.PublishedOn.Equal(publishedOn))
}

func TestUpdateShortCircuitOnPublishedPost(t *testing.T) {
	service, posts, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1, Published: true})
	before := post.UpdatedOn

	// no caption, no tags: skip the write entirely
	published := false
	updated, err := service.Update(post.ID, 1, models.UpdatePostRequest{Published: &published})
	assert.NilError(t, err)
	assert.Assert(t, updated.UpdatedOn.Equal(before))
	assert.Equal(t, updated.Published, true)
	assert.Equal(t, len(posts.posts), 1)
}

func TestUpdateUnchangedValuesLeaveUpdatedOn(t *testing.T) {
	service, _, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1, Caption: "same"})
	before := post.UpdatedOn

	caption := "same"
	updated, err := service.Update(post.ID, 1, models.UpdatePostRequest{Caption: &caption})
	assert.NilError(t, err)
	assert.Assert(t, updated.UpdatedOn.Equal(before))
}

func TestUpdateReplacesTagSet(t *testing.T) {
	service, _, tags, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1, Tags: []string{"sunset"}})

	newTags := []string{"beach", "summer"}
	updated, err := service.Update(post.ID, 1, models.UpdatePostRequest{Tags: &newTags})
	assert.NilError(t, err)
	assert.Equal(t, len(updated.Tags), 2)
	assert.Equal(t, updated.Tags[0].Slug, "beach")
	assert.Equal(t, updated.Tags[1].Slug, "summer")

	// the dropped tag still exists on its own
	sunset, err := tags.FindBySlug("sunset")
	assert.NilError(t, err)
	assert.Assert(t, sunset != nil)
}

func TestDeletePost(t *testing.T) {
	service, posts, _, images := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1})
	key := post.ID.String() + "_photo.jpg"

	err := service.Delete(context.Background(), post.ID, 1)
	assert.NilError(t, err)
	assert.Equal(t, len(posts.posts), 0)
	assert.Equal(t, len(images.saved), 0)
	assert.DeepEqual(t, images.removed, []string{key})

	_, err = service.Get(post.ID)
	assert.Assert(t, errs.IsNotFound(err))
}

func TestDeletePostRejectsNonOwner(t *testing.T) {
	service, posts, _, _ := newTestPostService(t)
	post := createTestPost(t, service, models.CreatePostRequest{OwnerID: 1})

	err := service.Delete(context.Background(), post.ID, 2)
	assert.Assert(t, errs.IsForbidden(err))
	assert.Equal(t, len(posts.posts), 1)
}

func TestParseLikeAction(t *testing.T) {
	action, err := ParseLikeAction("Like")
	assert.NilError(t, err)
	assert.Equal(t, action, LikeActionLike)

	action, err = ParseLikeAction("Unlike")
	assert.NilError(t, err)
	assert.Equal(t, action, LikeActionUnlike)

	_, err = ParseLikeAction("smash")
	assert.Assert(t, errs.IsValidation(err))
}
