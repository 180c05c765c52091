package repository

import (
	"pos_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type documentProductRepository struct {
	doc *domain.Document
	log *logrus.Logger
}

// NewProductRepository works on doc for the duration of one store update or
// read. The repository must not outlive that call.
func NewProductRepository(doc *domain.Document, logger *logrus.Logger) domain.ProductRepository {
	return &documentProductRepository{
		doc: doc,
		log: logger,
	}
}

func (r *documentProductRepository) CreateProduct(product domain.Product) domain.Product {
	r.doc.Products = append(r.doc.Products, product)
	r.log.Debugf("Repository: Product appended with ID: %s, Name: %s", product.ID, product.Name)
	return product
}

func (r *documentProductRepository) GetProductByID(id string) (*domain.Product, error) {
	for i := range r.doc.Products {
		if r.doc.Products[i].ID == id {
			product := r.doc.Products[i]
			return &product, nil
		}
	}
	r.log.Debugf("Repository: Product with ID %s not found", id)
	return nil, domain.NotFoundf("product with id %s", id)
}

// UpdateProduct replaces the first product carrying product.ID.
func (r *documentProductRepository) UpdateProduct(product domain.Product) (*domain.Product, error) {
	for i := range r.doc.Products {
		if r.doc.Products[i].ID == product.ID {
			r.doc.Products[i] = product
			r.log.Debugf("Repository: Product replaced with ID: %s", product.ID)
			return &product, nil
		}
	}
	r.log.Debugf("Repository: Product with ID %s not found for update", product.ID)
	return nil, domain.NotFoundf("product with id %s", product.ID)
}

// DeleteProduct removes every entry with the id and reports how many went.
func (r *documentProductRepository) DeleteProduct(id string) int {
	kept := r.doc.Products[:0]
	removed := 0
	for _, p := range r.doc.Products {
		if p.ID == id {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	r.doc.Products = kept
	r.log.Debugf("Repository: Removed %d product entries with ID %s", removed, id)
	return removed
}

func (r *documentProductRepository) ListProducts() []domain.Product {
	return append([]domain.Product{}, r.doc.Products...)
}

func (r *documentProductRepository) ListProductsByCategory(categoryID string) []domain.Product {
	products := []domain.Product{}
	for _, p := range r.doc.Products {
		if p.CategoryID == categoryID {
			products = append(products, p)
		}
	}
	return products
}
