package domain

// SaleRepository only appends and reads; sales are never updated or deleted.
type SaleRepository interface {
	CreateSale(sale Sale) Sale
	GetSaleByID(id string) (*Sale, error)
	ListSales() []Sale
}
