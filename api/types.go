package api

import "github.com/picshare/picshare-backend/models"

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler postHandler
	tagHandler  tagHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// PostCollection represents multiple posts with their tags
type PostCollection struct {
	Posts []*models.Post `json:"posts"`
	Total int            `json:"total"`
}

// TagCollection represents multiple tags
type TagCollection struct {
	Tags  []*models.Tag `json:"tags"`
	Total int           `json:"total"`
}

// DeletionResponse carries the success message of a delete endpoint
type DeletionResponse struct {
	Message string `json:"message"`
}

const (
	postDeletedMessage = "The post has been successfully deleted!"
	tagDeletedMessage  = "The tag has been successfully deleted!"
)
