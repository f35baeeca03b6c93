package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picshare/picshare-backend/errs"
	"github.com/picshare/picshare-backend/models"
	"github.com/picshare/picshare-backend/services"
)

const maxUploadBytes = 32 << 20

type postHandler struct {
	responder   Responder
	logger      zerolog.Logger
	postService *services.PostService
	postFilter  *services.PostFilter
}

func newPostHandler(postService *services.PostService, postFilter *services.PostFilter) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		postService: postService,
		postFilter:  postFilter,
	}
}

// listPosts retrieves posts filtered by owners and/or tags, paged after
// filtering. The same handler serves /posts and /posts/latest.
func (h postHandler) listPosts(latest bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		ownerIDs, err := queryInt64List(query, "owners")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		params := services.ListPostsParams{
			OwnerIDs: ownerIDs,
			TagSlugs: queryStringList(query, "tags"),
			Skip:     queryInt(query, "skip", services.SkipDefault),
			Limit:    queryInt(query, "limit", services.LimitDefault),
			Latest:   latest,
		}

		posts, err := h.postFilter.ListPosts(params)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, PostCollection{Posts: posts, Total: len(posts)})
	}
}

// getPost retrieves a single post by id
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathPostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postService.Get(postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createPost creates a post from a multipart form carrying the image file
// plus owner_id, caption, tags and published fields
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse multipart form")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed multipart form"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			h.responder.WriteError(w, errs.NewValidationError("image", "an image file is required"))
			return
		}
		defer file.Close()

		ownerID, err := strconv.ParseInt(r.FormValue("owner_id"), 10, 64)
		if err != nil {
			h.responder.WriteError(w, errs.NewValidationError("owner_id", "must be an integer"))
			return
		}

		published := false
		if rawPublished := r.FormValue("published"); rawPublished != "" {
			published, err = strconv.ParseBool(rawPublished)
			if err != nil {
				h.responder.WriteError(w, errs.NewValidationError("published", "must be a boolean"))
				return
			}
		}

		req := models.CreatePostRequest{
			Caption:   r.FormValue("caption"),
			Tags:      formStringList(r.Form["tags"]),
			Published: published,
			OwnerID:   ownerID,
		}

		post, err := h.postService.Create(r.Context(), req, header.Filename, file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, post)
	}
}

// likeUnlikePost applies the like_action query value to the post
func (h postHandler) likeUnlikePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathPostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		action, err := services.ParseLikeAction(r.URL.Query().Get("like_action"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postService.LikeUnlike(postID, action)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// addComment attaches an external comment id to the post
func (h postHandler) addComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, commentID, err := pathPostAndCommentIDs(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postService.AddComment(postID, commentID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// removeComment detaches an external comment id from the post
func (h postHandler) removeComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, commentID, err := pathPostAndCommentIDs(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postService.RemoveComment(postID, commentID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// removeAllComments clears the post's comment list
func (h postHandler) removeAllComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathPostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postService.RemoveAllComments(postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// updatePost applies caption/tags/published changes on behalf of the user
// identified by the user_id query parameter
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathPostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		userID, err := queryUserID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req models.UpdatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode post update request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		post, err := h.postService.Update(postID, userID, req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// deletePost hard-deletes the post and its image on behalf of the user
// identified by the user_id query parameter
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathPostID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		userID, err := queryUserID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, DeletionResponse{Message: postDeletedMessage})
	}
}

func pathPostID(r *http.Request) (uuid.UUID, error) {
	postIDStr := chi.URLParam(r, "postID")
	if postIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing postID")
	}

	postID, err := uuid.Parse(postIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid postID")
	}
	return postID, nil
}

func pathPostAndCommentIDs(r *http.Request) (uuid.UUID, int64, error) {
	postID, err := pathPostID(r)
	if err != nil {
		return uuid.Nil, 0, err
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		return uuid.Nil, 0, errs.NewBadRequestError("invalid commentID")
	}
	return postID, commentID, nil
}

func queryUserID(r *http.Request) (int64, error) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		return 0, errs.NewValidationError("user_id", "must be an integer")
	}
	return userID, nil
}

// queryInt64List collects repeated and comma-separated integer query values
func queryInt64List(query map[string][]string, key string) ([]int64, error) {
	var values []int64
	for _, raw := range queryStringList(query, key) {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errs.NewValidationError(key, "must be a list of integers")
		}
		values = append(values, value)
	}
	return values, nil
}

// queryStringList collects repeated and comma-separated query values
func queryStringList(query map[string][]string, key string) []string {
	var values []string
	for _, raw := range query[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func queryInt(query map[string][]string, key string, defaultValue int) int {
	raw, ok := query[key]
	if !ok || len(raw) == 0 || raw[0] == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw[0])
	if err != nil {
		return defaultValue
	}
	return value
}

func formStringList(raw []string) []string {
	var values []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
