package usecase

import (
	"context"
	"strings"

	"pos_service/internal/domain"
	"pos_service/internal/repository"

	"github.com/sirupsen/logrus"
)

type CategoryUseCase interface {
	AddCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	GetCategory(id string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) (string, error)
	ListCategories() []domain.Category
}

type categoryUseCase struct {
	store DocumentStore
	newID IDGenerator
	log   *logrus.Logger
}

func NewCategoryUseCase(store DocumentStore, newID IDGenerator, logger *logrus.Logger) CategoryUseCase {
	if newID == nil {
		newID = NewUUID
	}
	return &categoryUseCase{
		store: store,
		newID: newID,
		log:   logger,
	}
}

func (uc *categoryUseCase) AddCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		uc.log.Warn("Use Case: Attempted to create category with empty name")
		return nil, domain.Invalidf("category name cannot be empty")
	}

	category := domain.Category{
		ID:        uc.newID(),
		Name:      name,
		IsActive:  input.IsActive == nil || *input.IsActive,
		SortOrder: input.SortOrder,
	}

	uc.log.Infof("Use Case: Attempting to create category with name '%s'", category.Name)
	err := uc.store.Update(ctx, func(doc *domain.Document) error {
		repository.NewCategoryRepository(doc, uc.log).CreateCategory(category)
		return nil
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist category '%s': %v", category.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category '%s' created successfully with ID %s", category.Name, category.ID)
	return &category, nil
}

func (uc *categoryUseCase) GetCategory(id string) (*domain.Category, error) {
	if id == "" {
		return nil, domain.Invalidf("category id is required")
	}
	doc := uc.store.Read()
	return repository.NewCategoryRepository(&doc, uc.log).GetCategoryByID(id)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	if id == "" {
		uc.log.Warn("Use Case: Attempted category update without an ID")
		return nil, domain.Invalidf("category id is required")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		uc.log.Warnf("Use Case: Attempted update for category ID %s with empty name", id)
		return nil, domain.Invalidf("category name cannot be empty for update")
	}

	var updated *domain.Category
	err := uc.store.Update(ctx, func(doc *domain.Document) error {
		repo := repository.NewCategoryRepository(doc, uc.log)
		current, err := repo.GetCategoryByID(id)
		if err != nil {
			return err
		}

		merged := *current
		if patch.Name != nil {
			merged.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.IsActive != nil {
			merged.IsActive = *patch.IsActive
		}
		if patch.SortOrder != nil {
			merged.SortOrder = *patch.SortOrder
		}

		updated, err = repo.UpdateCategory(merged)
		return err
	})
	if err != nil {
		uc.log.Warnf("Use Case: Update of category ID %s failed: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Category updated successfully for ID %s", id)
	return updated, nil
}

// DeleteCategory leaves products referencing the category as they are.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) (string, error) {
	if id == "" {
		uc.log.Warn("Use Case: Attempted category delete without an ID")
		return "", domain.Invalidf("category id is required")
	}

	uc.log.Infof("Use Case: Attempting to delete category ID %s", id)
	err := uc.store.Update(ctx, func(doc *domain.Document) error {
		repository.NewCategoryRepository(doc, uc.log).DeleteCategory(id)
		return nil
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist delete of category ID %s: %v", id, err)
		return "", err
	}

	uc.log.Infof("Use Case: Category deleted successfully for ID %s", id)
	return id, nil
}

func (uc *categoryUseCase) ListCategories() []domain.Category {
	doc := uc.store.Read()
	return repository.NewCategoryRepository(&doc, uc.log).ListCategories()
}
