package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/flashlyapp/flashly-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/categories",
		Summary:     "List categories",
		Tags:        []string{"Decks"},
	}, s.handleListCategories)
}

// CategoriesOutput wraps the category list for Huma.
type CategoriesOutput struct {
	Body service.CategoriesResult
}

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*CategoriesOutput, error) {
	result, err := s.services.Categories.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &CategoriesOutput{Body: *result}, nil
}
