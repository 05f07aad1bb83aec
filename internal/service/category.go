package service

import (
	"context"
	"fmt"
)

// CategoryService lists the static deck categories.
type CategoryService struct {
	rt *Runtime
}

// NewCategoryService creates a new category service.
func NewCategoryService(rt *Runtime) *CategoryService {
	return &CategoryService{rt: rt}
}

// Categories returns every category in store order.
func (s *CategoryService) Categories(ctx context.Context) (*CategoriesResult, error) {
	release, err := s.rt.enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	categories, err := s.rt.store.Categories.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &CategoriesResult{
		Message:    "Categories loaded successfully",
		Categories: deref(categories),
	}, nil
}
