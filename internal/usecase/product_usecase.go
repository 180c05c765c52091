package usecase

import (
	"context"
	"strings"

	"pos_service/internal/domain"
	"pos_service/internal/repository"

	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	AddProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	GetProduct(id string) (*domain.Product, error)
	EditProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (string, error)
	ListProducts() []domain.Product
	ListProductsByCategory(categoryID string) ([]domain.Product, error)
}

type productUseCase struct {
	store DocumentStore
	newID IDGenerator
	log   *logrus.Logger
}

func NewProductUseCase(store DocumentStore, newID IDGenerator, logger *logrus.Logger) ProductUseCase {
	if newID == nil {
		newID = NewUUID
	}
	return &productUseCase{
		store: store,
		newID: newID,
		log:   logger,
	}
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalidf("product name cannot be empty")
	}
	if p.Price.IsNegative() {
		return domain.Invalidf("product price cannot be negative")
	}
	if p.Stock < 0 {
		return domain.Invalidf("product stock cannot be negative")
	}
	return nil
}

func (uc *productUseCase) AddProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	product := domain.Product{
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		Stock:      input.Stock,
		CategoryID: input.CategoryID,
		Image:      input.Image,
	}
	if err := validateProduct(product); err != nil {
		uc.log.Warnf("Use Case: Rejected new product '%s': %v", input.Name, err)
		return nil, err
	}
	product.ID = uc.newID()

	uc.log.Infof("Use Case: Attempting to create product '%s'", product.Name)
	err := uc.store.Update(ctx, func(doc *domain.Document) error {
		repository.NewProductRepository(doc, uc.log).CreateProduct(product)
		return nil
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %s", product.Name, product.ID)
	return &product, nil
}

func (uc *productUseCase) GetProduct(id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.Invalidf("product id is required")
	}
	doc := uc.store.Read()
	product, err := repository.NewProductRepository(&doc, uc.log).GetProductByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get product ID %s: %v", id, err)
		return nil, err
	}
	return product, nil
}

// EditProduct merges patch over the stored product; nil patch fields keep
// their current value.
func (uc *productUseCase) EditProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if id == "" {
		uc.log.Warn("Use Case: Attempted product update without an ID")
		return nil, domain.Invalidf("product id is required")
	}

	var updated *domain.Product
	err := uc.store.Update(ctx, func(doc *domain.Document) error {
		repo := repository.NewProductRepository(doc, uc.log)
		current, err := repo.GetProductByID(id)
		if err != nil {
			return err
		}

		merged := *current
		if patch.Name != nil {
			merged.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Price != nil {
			merged.Price = *patch.Price
		}
		if patch.Stock != nil {
			merged.Stock = *patch.Stock
		}
		if patch.CategoryID != nil {
			merged.CategoryID = *patch.CategoryID
		}
		if patch.Image != nil {
			merged.Image = *patch.Image
		}
		if err := validateProduct(merged); err != nil {
			return err
		}

		updated, err = repo.UpdateProduct(merged)
		return err
	})
	if err != nil {
		uc.log.Warnf("Use Case: Update of product ID %s failed: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product updated successfully for ID %s", id)
	return updated, nil
}

// DeleteProduct succeeds whether or not the product exists.
func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) (string, error) {
	if id == "" {
		uc.log.Warn("Use Case: Attempted product delete without an ID")
		return "", domain.Invalidf("product id is required")
	}

	removed := 0
	err := uc.store.Update(ctx, func(doc *domain.Document) error {
		removed = repository.NewProductRepository(doc, uc.log).DeleteProduct(id)
		return nil
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to persist delete of product ID %s: %v", id, err)
		return "", err
	}

	if removed == 0 {
		uc.log.Infof("Use Case: Product ID %s was already absent", id)
	} else {
		uc.log.Infof("Use Case: Product deleted successfully for ID %s", id)
	}
	return id, nil
}

func (uc *productUseCase) ListProducts() []domain.Product {
	doc := uc.store.Read()
	products := repository.NewProductRepository(&doc, uc.log).ListProducts()
	uc.log.Debugf("Use Case: Retrieved %d products", len(products))
	return products
}

func (uc *productUseCase) ListProductsByCategory(categoryID string) ([]domain.Product, error) {
	if categoryID == "" {
		return nil, domain.Invalidf("category id is required")
	}
	doc := uc.store.Read()
	products := repository.NewProductRepository(&doc, uc.log).ListProductsByCategory(categoryID)
	uc.log.Debugf("Use Case: Retrieved %d products for category %s", len(products), categoryID)
	return products, nil
}
