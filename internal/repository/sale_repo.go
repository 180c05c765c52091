package repository

import (
	"pos_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type documentSaleRepository struct {
	doc *domain.Document
	log *logrus.Logger
}

func NewSaleRepository(doc *domain.Document, logger *logrus.Logger) domain.SaleRepository {
	return &documentSaleRepository{
		doc: doc,
		log: logger,
	}
}

func (r *documentSaleRepository) CreateSale(sale domain.Sale) domain.Sale {
	r.doc.Sales = append(r.doc.Sales, sale)
	r.log.Debugf("Repository: Sale appended with ID: %s, %d items", sale.ID, len(sale.Items))
	return sale
}

func (r *documentSaleRepository) GetSaleByID(id string) (*domain.Sale, error) {
	for i := range r.doc.Sales {
		if r.doc.Sales[i].ID == id {
			sale := r.doc.Sales[i]
			sale.Items = append([]domain.SaleItem{}, sale.Items...)
			return &sale, nil
		}
	}
	r.log.Debugf("Repository: Sale with ID %s not found", id)
	return nil, domain.NotFoundf("sale with id %s", id)
}

func (r *documentSaleRepository) ListSales() []domain.Sale {
	sales := make([]domain.Sale, 0, len(r.doc.Sales))
	for _, s := range r.doc.Sales {
		s.Items = append([]domain.SaleItem{}, s.Items...)
		sales = append(sales, s)
	}
	return sales
}
