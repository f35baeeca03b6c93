package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picshare/picshare-backend/errs"
	"github.com/picshare/picshare-backend/models"
	"github.com/picshare/picshare-backend/services"
)

type tagHandler struct {
	responder  Responder
	logger     zerolog.Logger
	tagService *services.TagService
}

func newTagHandler(tagService *services.TagService) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		tagService: tagService,
	}
}

// getAllTags retrieves all tags with their posts
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagService.List()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TagCollection{Tags: tags, Total: len(tags)})
	}
}

// searchTags retrieves tags whose slug contains the given characters
func (h tagHandler) searchTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chars := chi.URLParam(r, "chars")

		tags, err := h.tagService.Search(chars)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TagCollection{Tags: tags, Total: len(tags)})
	}
}

// getTag retrieves a single tag by its slug
func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagSlug := chi.URLParam(r, "tagSlug")
		if tagSlug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing tagSlug"))
			return
		}

		tag, err := h.tagService.GetBySlug(tagSlug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// createTag registers a new tag
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateTagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode tag request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		tag, err := h.tagService.Create(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, tag)
	}
}

// deleteTag removes a tag by its slug
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagSlug := chi.URLParam(r, "tagSlug")
		if tagSlug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing tagSlug"))
			return
		}

		if err := h.tagService.DeleteBySlug(tagSlug); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, DeletionResponse{Message: tagDeletedMessage})
	}
}
