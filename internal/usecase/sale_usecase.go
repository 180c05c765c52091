package usecase

import (
	"context"
	"math"
	"time"

	"pos_service/internal/domain"
	"pos_service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type SaleUseCase interface {
	RecordSale(ctx context.Context, lines []domain.SaleLine) (*domain.Sale, error)
	GetSale(id string) (*domain.Sale, error)
	ListSales() []domain.Sale
}

type saleUseCase struct {
	store             DocumentStore
	newID             IDGenerator
	now               func() time.Time
	lowStockThreshold int
	log               *logrus.Logger
}

func NewSaleUseCase(store DocumentStore, newID IDGenerator, lowStockThreshold int, logger *logrus.Logger) SaleUseCase {
	if newID == nil {
		newID = NewUUID
	}
	return &saleUseCase{
		store:             store,
		newID:             newID,
		now:               func() time.Time { return time.Now().UTC() },
		lowStockThreshold: lowStockThreshold,
		log:               logger,
	}
}

type productDemand struct {
	product  *domain.Product
	quantity int
}

// RecordSale validates the whole request against one snapshot, deducts stock,
// appends the sale and commits, all inside a single store update. Demand is
// summed per product before it is compared with stock.
//
// If the commit fails the deduction stays in memory and the IOError is
// returned; the sale is not durable.
func (uc *saleUseCase) RecordSale(ctx context.Context, lines []domain.SaleLine) (*domain.Sale, error) {
	if len(lines) == 0 {
		uc.log.Warn("Use Case: Rejected sale with no items")
		return nil, domain.Invalidf("sale must contain at least one item")
	}
	for i, line := range lines {
		if line.ProductID == "" {
			return nil, domain.Invalidf("item %d: product id is required", i)
		}
		if line.Quantity <= 0 {
			return nil, domain.Invalidf("item %d (product %s): quantity must be positive", i, line.ProductID)
		}
	}

	var sale domain.Sale
	var lowStock []domain.Product
	err := uc.store.Update(ctx, func(doc *domain.Document) error {
		products := repository.NewProductRepository(doc, uc.log)

		order := make([]string, 0, len(lines))
		demand := make(map[string]*productDemand, len(lines))
		for _, line := range lines {
			if d, ok := demand[line.ProductID]; ok {
				if d.quantity > math.MaxInt-line.Quantity {
					uc.log.Warnf("Use Case: Rejected sale, total quantity for Product ID %s overflows", line.ProductID)
					return domain.Invalidf("total quantity for product %s is too large", line.ProductID)
				}
				d.quantity += line.Quantity
				continue
			}
			order = append(order, line.ProductID)
			demand[line.ProductID] = &productDemand{quantity: line.Quantity}
		}

		for _, id := range order {
			d := demand[id]
			product, err := products.GetProductByID(id)
			if err != nil {
				uc.log.Warnf("Use Case: Product ID %s not in catalog (Requested total: %d)", id, d.quantity)
				return &domain.InsufficientStockError{ProductID: id, Requested: d.quantity}
			}
			if product.Stock < d.quantity {
				uc.log.Warnf("Use Case: Insufficient stock for Product ID %s (Requested total: %d, Available: %d)", id, d.quantity, product.Stock)
				return &domain.InsufficientStockError{ProductID: id, Requested: d.quantity, Available: product.Stock}
			}
			d.product = product
		}

		for _, id := range order {
			d := demand[id]
			d.product.Stock -= d.quantity
			if _, err := products.UpdateProduct(*d.product); err != nil {
				return err
			}
			if d.product.Stock <= uc.lowStockThreshold {
				lowStock = append(lowStock, *d.product)
			}
		}

		sale = domain.Sale{
			ID:    uc.newID(),
			Date:  uc.now(),
			Items: make([]domain.SaleItem, 0, len(lines)),
			Total: decimal.Zero,
		}
		for _, line := range lines {
			p := demand[line.ProductID].product
			item := domain.SaleItem{
				ProductID: p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  line.Quantity,
			}
			sale.Items = append(sale.Items, item)
			sale.Total = sale.Total.Add(item.Subtotal())
		}
		repository.NewSaleRepository(doc, uc.log).CreateSale(sale)
		return nil
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindIOError {
			uc.log.Errorf("Use Case: Sale %s applied in memory but not persisted: %v", sale.ID, err)
		}
		return nil, err
	}

	uc.log.Infof("Use Case: Sale %s recorded with %d items, total %s", sale.ID, len(sale.Items), sale.Total.StringFixed(2))
	for _, p := range lowStock {
		uc.log.WithFields(logrus.Fields{
			"product_id": p.ID,
			"stock":      p.Stock,
			"threshold":  uc.lowStockThreshold,
		}).Warnf("Use Case: Low stock for product '%s'", p.Name)
	}
	return &sale, nil
}

func (uc *saleUseCase) GetSale(id string) (*domain.Sale, error) {
	if id == "" {
		return nil, domain.Invalidf("sale id is required")
	}
	doc := uc.store.Read()
	sale, err := repository.NewSaleRepository(&doc, uc.log).GetSaleByID(id)
	if err != nil {
		uc.log.Warnf("Use Case: Failed to get sale ID %s: %v", id, err)
		return nil, err
	}
	return sale, nil
}

func (uc *saleUseCase) ListSales() []domain.Sale {
	doc := uc.store.Read()
	sales := repository.NewSaleRepository(&doc, uc.log).ListSales()
	uc.log.Debugf("Use Case: Retrieved %d sales", len(sales))
	return sales
}
