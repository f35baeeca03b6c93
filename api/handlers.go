package api

import (
	"github.com/picshare/picshare-backend/database"
	"github.com/picshare/picshare-backend/services"
	"github.com/picshare/picshare-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, images storage.ImageStore) *routeHandlers {
	tagService := services.NewTagService(database.TagRepo())
	postService := services.NewPostService(database.PostRepo(), tagService, images)
	postFilter := services.NewPostFilter(database.PostRepo(), database.TagRepo())

	return &routeHandlers{
		postHandler: newPostHandler(postService, postFilter),
		tagHandler:  newTagHandler(tagService),
	}
}
