package domain

type CategoryRepository interface {
	CreateCategory(category Category) Category
	GetCategoryByID(id string) (*Category, error)
	UpdateCategory(category Category) (*Category, error)
	DeleteCategory(id string) int
	ListCategories() []Category
}
