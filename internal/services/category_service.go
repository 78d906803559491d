package services

import (
	"context"

	"focolare/internal/core"
	"focolare/internal/storage"
)

// CategoryService manages a group's spending and income categories.
type CategoryService struct {
	store storage.Store
	gate  *Gate
}

func NewCategoryService(store storage.Store, gate *Gate) *CategoryService {
	return &CategoryService{store: store, gate: gate}
}

func (s *CategoryService) Create(ctx context.Context, userID string, category *core.Category) (*core.Category, error) {
	if err := s.gate.VerifyAccess(ctx, category.GroupID, userID); err != nil {
		return nil, err
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.InsertCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, userID, groupID string) ([]core.Category, error) {
	if err := s.gate.VerifyAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListCategoriesByGroup(ctx, groupID)
}

func (s *CategoryService) Update(ctx context.Context, userID, categoryID, name string, kind core.CategoryKind) (*core.Category, error) {
	category, err := s.store.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.VerifyAccess(ctx, category.GroupID, userID); err != nil {
		return nil, err
	}

	category.Name = name
	category.Kind = kind
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, categoryID string) error {
	category, err := s.store.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if err := s.gate.VerifyAccess(ctx, category.GroupID, userID); err != nil {
		return err
	}
	return s.store.DeleteCategory(ctx, categoryID)
}
