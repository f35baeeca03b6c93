package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/picshare/picshare-backend/errs"
	"github.com/picshare/picshare-backend/models"
)

// Default paging applied by the API when the query carries no skip/limit.
const (
	SkipDefault  = 0
	LimitDefault = 100
)

// ListPostsParams selects and pages posts. OwnerIDs combine as a union, tag
// slugs as an intersection: a post qualifies only if it carries every listed
// tag.
type ListPostsParams struct {
	OwnerIDs []int64
	TagSlugs []string
	Skip     int
	Limit    int
	Latest   bool
}

// PostFilter combines owner and tag filters over the post and tag stores.
type PostFilter struct {
	posts PostStore
	tags  TagStore
}

func NewPostFilter(posts PostStore, tags TagStore) *PostFilter {
	return &PostFilter{posts: posts, tags: tags}
}

// ListPosts returns the posts matching the given filters. Pagination is
// applied strictly after filtering and sorting; an empty selection is a valid
// result, never an error.
func (f *PostFilter) ListPosts(p ListPostsParams) ([]*models.Post, error) {
	var (
		selected []*models.Post
		err      error
	)

	hasOwners := len(p.OwnerIDs) > 0
	hasTags := len(p.TagSlugs) > 0

	switch {
	case hasOwners && hasTags:
		byTags, seeded, tagErr := f.postsByTags(p.TagSlugs)
		if tagErr != nil {
			return nil, tagErr
		}
		byOwners, ownerErr := f.postsByOwners(p.OwnerIDs)
		if ownerErr != nil {
			return nil, ownerErr
		}
		if seeded {
			selected = intersect(byTags, byOwners)
		} else {
			// No requested tag resolved, so the tag filter narrows nothing
			selected = byOwners
		}
	case hasOwners:
		selected, err = f.postsByOwners(p.OwnerIDs)
	case hasTags:
		selected, _, err = f.postsByTags(p.TagSlugs)
	default:
		selected, err = f.posts.FindAll()
		if err != nil {
			err = errs.NewDatabaseError("find", "posts", err)
		}
	}
	if err != nil {
		return nil, err
	}

	if p.Latest {
		sortLatest(selected)
	}

	return paginate(selected, p.Skip, p.Limit), nil
}

// postsByOwners returns the union of each owner's posts.
func (f *PostFilter) postsByOwners(ownerIDs []int64) ([]*models.Post, error) {
	var union []*models.Post
	seenOwners := make(map[int64]bool, len(ownerIDs))
	seenPosts := make(map[uuid.UUID]bool)

	for _, ownerID := range ownerIDs {
		if seenOwners[ownerID] {
			continue
		}
		seenOwners[ownerID] = true

		posts, err := f.posts.FindByOwner(ownerID)
		if err != nil {
			return nil, errs.NewDatabaseError("find", "posts", err)
		}
		for _, post := range posts {
			if !seenPosts[post.ID] {
				seenPosts[post.ID] = true
				union = append(union, post)
			}
		}
	}

	return union, nil
}

// postsByTags returns the posts carrying every resolvable slug. Unknown slugs
// are silently skipped; the first slug that resolves seeds the candidate set
// and each following one filters it down. seeded reports whether any slug
// resolved at all.
func (f *PostFilter) postsByTags(slugs []string) (candidates []*models.Post, seeded bool, err error) {
	for _, slug := range slugs {
		tag, err := f.tags.FindBySlug(slug)
		if err != nil {
			return nil, false, errs.NewDatabaseError("find", "tag", err)
		}
		if tag == nil {
			continue
		}

		tagged := make([]*models.Post, 0, len(tag.Posts))
		for i := range tag.Posts {
			tagged = append(tagged, &tag.Posts[i])
		}

		if !seeded {
			candidates = tagged
			seeded = true
		} else {
			candidates = intersect(candidates, tagged)
		}
	}

	return candidates, seeded, nil
}

// intersect keeps the posts of a that also appear in b, preserving a's order.
func intersect(a, b []*models.Post) []*models.Post {
	inB := make(map[uuid.UUID]bool, len(b))
	for _, post := range b {
		inB[post.ID] = true
	}

	var both []*models.Post
	for _, post := range a {
		if inB[post.ID] {
			both = append(both, post)
		}
	}
	return both
}

// sortLatest orders posts by creation time descending, with the id as a
// deterministic tie-break.
func sortLatest(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedOn.Equal(posts[j].CreatedOn) {
			return posts[i].ID.String() < posts[j].ID.String()
		}
		return posts[i].CreatedOn.After(posts[j].CreatedOn)
	})
}

func paginate(posts []*models.Post, skip, limit int) []*models.Post {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(posts) || limit <= 0 {
		return []*models.Post{}
	}

	end := skip + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[skip:end]
}
