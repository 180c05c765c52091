package usecase

import (
	"io"
	"sort"
	"strings"
	"time"

	"pos_service/internal/domain"
	"pos_service/internal/repository"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const saleDateLayout = "2006-01-02"

type ReportUseCase interface {
	SearchSales(query string, newestFirst bool) []domain.Sale
	SalesSummary() domain.SalesSummary
	LowStock(threshold int) ([]domain.Product, error)
	DefaultLowStockThreshold() int
	ExportProductsCSV(w io.Writer) error
	ExportSalesCSV(w io.Writer) error
}

type reportUseCase struct {
	store             DocumentStore
	lowStockThreshold int
	log               *logrus.Logger
}

func NewReportUseCase(store DocumentStore, lowStockThreshold int, logger *logrus.Logger) ReportUseCase {
	return &reportUseCase{
		store:             store,
		lowStockThreshold: lowStockThreshold,
		log:               logger,
	}
}

// SearchSales matches query against the sale id (substring, case-insensitive)
// and the sale date (YYYY-MM-DD prefix). An empty query matches everything.
func (uc *reportUseCase) SearchSales(query string, newestFirst bool) []domain.Sale {
	doc := uc.store.Read()
	all := repository.NewSaleRepository(&doc, uc.log).ListSales()

	q := strings.ToLower(strings.TrimSpace(query))
	sales := make([]domain.Sale, 0, len(all))
	for _, s := range all {
		if q == "" ||
			strings.Contains(strings.ToLower(s.ID), q) ||
			strings.HasPrefix(s.Date.UTC().Format(saleDateLayout), q) {
			sales = append(sales, s)
		}
	}
	if newestFirst {
		sort.SliceStable(sales, func(i, j int) bool {
			return sales[i].Date.After(sales[j].Date)
		})
	}
	uc.log.Debugf("Use Case: Sales search '%s' matched %d of %d sales", query, len(sales), len(all))
	return sales
}

func (uc *reportUseCase) SalesSummary() domain.SalesSummary {
	doc := uc.store.Read()
	summary := domain.SalesSummary{Revenue: decimal.Zero}
	for _, s := range doc.Sales {
		summary.Count++
		summary.Revenue = summary.Revenue.Add(s.Total)
		for _, item := range s.Items {
			summary.UnitsSold += item.Quantity
		}
		date := s.Date
		if summary.FirstSale == nil || date.Before(*summary.FirstSale) {
			summary.FirstSale = &date
		}
		if summary.LastSale == nil || date.After(*summary.LastSale) {
			summary.LastSale = &date
		}
	}
	return summary
}

func (uc *reportUseCase) LowStock(threshold int) ([]domain.Product, error) {
	if threshold < 0 {
		return nil, domain.Invalidf("threshold cannot be negative")
	}
	doc := uc.store.Read()
	products := []domain.Product{}
	for _, p := range doc.Products {
		if p.Stock <= threshold {
			products = append(products, p)
		}
	}
	return products, nil
}

func (uc *reportUseCase) DefaultLowStockThreshold() int {
	return uc.lowStockThreshold
}

type productCSVRow struct {
	ID         string `csv:"id"`
	Name       string `csv:"name"`
	Price      string `csv:"price"`
	Stock      int    `csv:"stock"`
	CategoryID string `csv:"category_id"`
	Category   string `csv:"category"`
	Image      string `csv:"image"`
}

type saleItemCSVRow struct {
	SaleID    string `csv:"sale_id"`
	Date      string `csv:"date"`
	ProductID string `csv:"product_id"`
	Name      string `csv:"name"`
	Price     string `csv:"price"`
	Quantity  int    `csv:"quantity"`
	Subtotal  string `csv:"subtotal"`
	SaleTotal string `csv:"sale_total"`
}

func (uc *reportUseCase) ExportProductsCSV(w io.Writer) error {
	doc := uc.store.Read()
	categoryNames := make(map[string]string, len(doc.Categories))
	for _, c := range doc.Categories {
		categoryNames[c.ID] = c.Name
	}

	rows := make([]*productCSVRow, 0, len(doc.Products))
	for _, p := range doc.Products {
		rows = append(rows, &productCSVRow{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price.StringFixed(2),
			Stock:      p.Stock,
			CategoryID: p.CategoryID,
			Category:   categoryNames[p.CategoryID],
			Image:      p.Image,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		uc.log.Errorf("Use Case: Product CSV export failed: %v", err)
		return &domain.IOError{Op: "export products", Err: err}
	}
	uc.log.Infof("Use Case: Exported %d products to CSV", len(rows))
	return nil
}

// ExportSalesCSV writes one row per sale item.
func (uc *reportUseCase) ExportSalesCSV(w io.Writer) error {
	doc := uc.store.Read()
	rows := []*saleItemCSVRow{}
	for _, s := range doc.Sales {
		for _, item := range s.Items {
			rows = append(rows, &saleItemCSVRow{
				SaleID:    s.ID,
				Date:      s.Date.UTC().Format(time.RFC3339),
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.Price.StringFixed(2),
				Quantity:  item.Quantity,
				Subtotal:  item.Subtotal().StringFixed(2),
				SaleTotal: s.Total.StringFixed(2),
			})
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		uc.log.Errorf("Use Case: Sales CSV export failed: %v", err)
		return &domain.IOError{Op: "export sales", Err: err}
	}
	uc.log.Infof("Use Case: Exported %d sale items from %d sales to CSV", len(rows), len(doc.Sales))
	return nil
}
