// domain/product.go
package domain

// ProductRepository works on a document borrowed for the duration of one request.
type ProductRepository interface {
	ListProducts() []Product
	ListProductsByCategory(categoryID string) []Product
	GetProductByID(id string) (*Product, error)
	CreateProduct(product Product) Product
	UpdateProduct(product Product) (*Product, error)
	DeleteProduct(id string) int
}
