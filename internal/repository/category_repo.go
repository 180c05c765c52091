package repository

import (
	"pos_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type documentCategoryRepository struct {
	doc *domain.Document
	log *logrus.Logger
}

func NewCategoryRepository(doc *domain.Document, logger *logrus.Logger) domain.CategoryRepository {
	return &documentCategoryRepository{
		doc: doc,
		log: logger,
	}
}

func (r *documentCategoryRepository) CreateCategory(category domain.Category) domain.Category {
	r.doc.Categories = append(r.doc.Categories, category)
	r.log.Debugf("Repository: Category appended with ID: %s, Name: %s", category.ID, category.Name)
	return category
}

func (r *documentCategoryRepository) GetCategoryByID(id string) (*domain.Category, error) {
	for i := range r.doc.Categories {
		if r.doc.Categories[i].ID == id {
			category := r.doc.Categories[i]
			return &category, nil
		}
	}
	r.log.Debugf("Repository: Category with ID %s not found", id)
	return nil, domain.NotFoundf("category with id %s", id)
}

func (r *documentCategoryRepository) UpdateCategory(category domain.Category) (*domain.Category, error) {
	for i := range r.doc.Categories {
		if r.doc.Categories[i].ID == category.ID {
			r.doc.Categories[i] = category
			r.log.Debugf("Repository: Category replaced with ID: %s", category.ID)
			return &category, nil
		}
	}
	return nil, domain.NotFoundf("category with id %s", category.ID)
}

// DeleteCategory never touches products that still reference the id.
func (r *documentCategoryRepository) DeleteCategory(id string) int {
	kept := r.doc.Categories[:0]
	removed := 0
	for _, c := range r.doc.Categories {
		if c.ID == id {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	r.doc.Categories = kept
	r.log.Debugf("Repository: Removed %d category entries with ID %s", removed, id)
	return removed
}

func (r *documentCategoryRepository) ListCategories() []domain.Category {
	return append([]domain.Category{}, r.doc.Categories...)
}
