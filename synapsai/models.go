package synapsai

import (
	"context"
	"errors"
	"net/url"

	"github.com/synapsai-cloud/synapsai-go/internal/normalize"
)

const modelsPath = "models"

// Model describes a model served by the API.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
	Status  string `json:"status,omitempty"`
}

// ModelList is the models listing.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// ModelsService lists and inspects models.
type ModelsService struct {
	client *Client
}

// List returns the available models.
func (s *ModelsService) List(ctx context.Context) (*ModelList, error) {
	return getJSON[ModelList](ctx, s.client, modelsPath)
}

// Retrieve returns one model by ID.
func (s *ModelsService) Retrieve(ctx context.Context, id string) (*Model, error) {
	if id == "" {
		return nil, normalize.ValidationError(errors.New("model id required"))
	}
	return getJSON[Model](ctx, s.client, modelsPath+"/"+url.PathEscape(id))
}
