package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pos_service/internal/domain"
	"pos_service/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const backupTimeLayout = "20060102T150405.000Z"

type MaintenanceUseCase interface {
	Backup(ctx context.Context, dir string) (string, error)
	Reset(ctx context.Context) error
	Seed(ctx context.Context, r io.Reader) (*SeedResult, error)
}

// SeedResult lists what a seed run created.
type SeedResult struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

type maintenanceUseCase struct {
	store      DocumentStore
	products   ProductUseCase
	categories CategoryUseCase
	backupDir  string
	now        func() time.Time
	log        *logrus.Logger
}

func NewMaintenanceUseCase(store DocumentStore, products ProductUseCase, categories CategoryUseCase, backupDir string, logger *logrus.Logger) MaintenanceUseCase {
	return &maintenanceUseCase{
		store:      store,
		products:   products,
		categories: categories,
		backupDir:  backupDir,
		now:        func() time.Time { return time.Now().UTC() },
		log:        logger,
	}
}

// Backup writes the current document to dir (or the configured backup
// directory) as pos-backup-<timestamp>.json and returns the file path.
func (uc *maintenanceUseCase) Backup(_ context.Context, dir string) (string, error) {
	if dir == "" {
		dir = uc.backupDir
	}
	if dir == "" {
		return "", domain.Invalidf("backup directory is not configured")
	}

	data, err := store.Encode(uc.store.Read())
	if err != nil {
		return "", &domain.IOError{Op: "encode backup", Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		uc.log.Errorf("Use Case: Failed to create backup directory %s: %v", dir, err)
		return "", &domain.IOError{Op: "create backup directory", Err: err}
	}

	path := filepath.Join(dir, "pos-backup-"+uc.now().UTC().Format(backupTimeLayout)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		uc.log.Errorf("Use Case: Failed to write backup %s: %v", path, err)
		return "", &domain.IOError{Op: "write backup", Err: err}
	}

	uc.log.Infof("Use Case: Backup written to %s (%d bytes)", path, len(data))
	return path, nil
}

// Reset replaces the whole document, cart included, with an empty one.
func (uc *maintenanceUseCase) Reset(ctx context.Context) error {
	uc.log.Warn("Use Case: Resetting database to an empty document")
	if err := uc.store.Commit(ctx, domain.NewDocument()); err != nil {
		uc.log.Errorf("Use Case: Reset failed: %v", err)
		return err
	}
	return nil
}

type seedFile struct {
	Categories []seedCategoryEntry `yaml:"categories"`
	Products   []seedProductEntry  `yaml:"products"`
}

type seedCategoryEntry struct {
	Name      string `yaml:"name"`
	IsActive  *bool  `yaml:"is_active"`
	SortOrder int    `yaml:"sort_order"`
}

type seedProductEntry struct {
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Stock    int    `yaml:"stock"`
	Category string `yaml:"category"` // category name, matched case-insensitively
	Image    string `yaml:"image"`
}

// Seed loads a YAML catalog. The whole file is checked before anything is
// added; entries then go through the regular add operations one by one.
func (uc *maintenanceUseCase) Seed(ctx context.Context, r io.Reader) (*SeedResult, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, domain.Invalidf("malformed seed file: %v", err)
	}

	known := make(map[string]bool)
	for _, c := range uc.categories.ListCategories() {
		known[strings.ToLower(c.Name)] = true
	}
	for i, c := range file.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, domain.Invalidf("categories[%d]: name is required", i)
		}
		known[strings.ToLower(strings.TrimSpace(c.Name))] = true
	}

	inputs := make([]domain.ProductInput, 0, len(file.Products))
	for i, p := range file.Products {
		price := decimal.Zero
		if p.Price != "" {
			parsed, err := decimal.NewFromString(p.Price)
			if err != nil {
				return nil, domain.Invalidf("products[%d]: invalid price %q", i, p.Price)
			}
			price = parsed
		}
		if p.Category != "" && !known[strings.ToLower(strings.TrimSpace(p.Category))] {
			return nil, domain.Invalidf("products[%d]: unknown category %q", i, p.Category)
		}
		input := domain.ProductInput{Name: p.Name, Price: price, Stock: p.Stock, Image: p.Image}
		if err := validateProduct(domain.Product{Name: input.Name, Price: input.Price, Stock: input.Stock}); err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		inputs = append(inputs, input)
	}

	result := &SeedResult{Categories: []domain.Category{}, Products: []domain.Product{}}
	for _, c := range file.Categories {
		created, err := uc.categories.AddCategory(ctx, domain.CategoryInput{Name: c.Name, IsActive: c.IsActive, SortOrder: c.SortOrder})
		if err != nil {
			return result, err
		}
		result.Categories = append(result.Categories, *created)
	}

	categoryIDs := make(map[string]string)
	for _, c := range uc.categories.ListCategories() {
		key := strings.ToLower(c.Name)
		if _, seen := categoryIDs[key]; !seen {
			categoryIDs[key] = c.ID
		}
	}
	for i, input := range inputs {
		if name := file.Products[i].Category; name != "" {
			input.CategoryID = categoryIDs[strings.ToLower(strings.TrimSpace(name))]
		}
		created, err := uc.products.AddProduct(ctx, input)
		if err != nil {
			return result, err
		}
		result.Products = append(result.Products, *created)
	}

	uc.log.Infof("Use Case: Seeded %d categories and %d products", len(result.Categories), len(result.Products))
	return result, nil
}
