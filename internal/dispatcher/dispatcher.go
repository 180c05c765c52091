// Package dispatcher routes named operations to the use cases and reports
// every outcome in one result shape. It holds no business rules.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"pos_service/internal/domain"
	"pos_service/internal/usecase"
)

// Result is the response contract shared by every transport.
type Result struct {
	OK        bool             `json:"ok"`
	Value     interface{}      `json:"value,omitempty"`
	ErrorKind domain.ErrorKind `json:"errorKind,omitempty"`
	Message   string           `json:"message,omitempty"`
	ProductID string           `json:"productId,omitempty"`
}

// Err rebuilds a Go error from a failed result, nil on success.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &OperationError{Kind: r.ErrorKind, Message: r.Message, ProductID: r.ProductID}
}

// OperationError carries a failed Result across APIs that speak error.
type OperationError struct {
	Kind      domain.ErrorKind
	Message   string
	ProductID string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

type handlerFunc func(ctx context.Context, args interface{}) (interface{}, error)

type Dispatcher struct {
	products    usecase.ProductUseCase
	categories  usecase.CategoryUseCase
	sales       usecase.SaleUseCase
	reports     usecase.ReportUseCase
	maintenance usecase.MaintenanceUseCase
	handlers    map[string]handlerFunc
	log         *logrus.Logger
}

func New(
	products usecase.ProductUseCase,
	categories usecase.CategoryUseCase,
	sales usecase.SaleUseCase,
	reports usecase.ReportUseCase,
	maintenance usecase.MaintenanceUseCase,
	logger *logrus.Logger,
) *Dispatcher {
	d := &Dispatcher{
		products:    products,
		categories:  categories,
		sales:       sales,
		reports:     reports,
		maintenance: maintenance,
		log:         logger,
	}
	d.handlers = map[string]handlerFunc{
		"listProducts":   d.listProducts,
		"getProduct":     d.getProduct,
		"addProduct":     d.addProduct,
		"editProduct":    d.editProduct,
		"deleteProduct":  d.deleteProduct,
		"listCategories": d.listCategories,
		"addCategory":    d.addCategory,
		"updateCategory": d.updateCategory,
		"deleteCategory": d.deleteCategory,
		"recordSale":     d.recordSale,
		"listSales":      d.listSales,
		"getSale":        d.getSale,
		"searchSales":    d.searchSales,
		"salesSummary":   d.salesSummary,
		"lowStock":       d.lowStock,
		"backup":         d.backup,
		"resetDatabase":  d.resetDatabase,
	}
	return d
}

// Operations lists the operation names in alphabetical order.
func (d *Dispatcher) Operations() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs one operation. It never panics: a panic inside a handler is
// reported as an Internal failure.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, args interface{}) (result Result) {
	start := time.Now()
	entry := d.log.WithField("operation", operation)

	defer func() {
		if r := recover(); r != nil {
			entry.Errorf("Dispatcher: Recovered from panic: %v", r)
			result = Result{OK: false, ErrorKind: domain.KindInternal, Message: "internal error"}
		}
		entry.WithFields(logrus.Fields{
			"ok":       result.OK,
			"kind":     result.ErrorKind,
			"duration": time.Since(start).String(),
		}).Debug("Dispatcher: Operation finished")
	}()

	handler, ok := d.handlers[operation]
	if !ok {
		entry.Warn("Dispatcher: Unknown operation")
		return failure(domain.Invalidf("unknown operation %q", operation))
	}

	value, err := handler(ctx, args)
	if err != nil {
		if kind := domain.KindOf(err); kind == domain.KindIOError || kind == domain.KindInternal {
			entry.Errorf("Dispatcher: Operation failed: %v", err)
		} else {
			entry.Infof("Dispatcher: Operation rejected: %v", err)
		}
		return failure(err)
	}
	return Result{OK: true, Value: value}
}

func failure(err error) Result {
	result := Result{OK: false, ErrorKind: domain.KindOf(err), Message: err.Error()}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		result.ProductID = stockErr.ProductID
	}
	return result
}

func (d *Dispatcher) listProducts(_ context.Context, _ interface{}) (interface{}, error) {
	return d.products.ListProducts(), nil
}

func (d *Dispatcher) getProduct(_ context.Context, args interface{}) (interface{}, error) {
	id, err := idArg(args)
	if err != nil {
		return nil, err
	}
	return d.products.GetProduct(id)
}

func (d *Dispatcher) addProduct(ctx context.Context, args interface{}) (interface{}, error) {
	var input domain.ProductInput
	if err := requireObject(args); err != nil {
		return nil, err
	}
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}
	return d.products.AddProduct(ctx, input)
}

func (d *Dispatcher) editProduct(ctx context.Context, args interface{}) (interface{}, error) {
	if err := requireObject(args); err != nil {
		return nil, err
	}
	id, err := idArg(args)
	if err != nil {
		return nil, err
	}
	var patch domain.ProductPatch
	if err := decodeArgs(args, &patch); err != nil {
		return nil, err
	}
	return d.products.EditProduct(ctx, id, patch)
}

func (d *Dispatcher) deleteProduct(ctx context.Context, args interface{}) (interface{}, error) {
	id, err := idArg(args)
	if err != nil {
		return nil, err
	}
	return d.products.DeleteProduct(ctx, id)
}

func (d *Dispatcher) listCategories(_ context.Context, _ interface{}) (interface{}, error) {
	return d.categories.ListCategories(), nil
}

func (d *Dispatcher) addCategory(ctx context.Context, args interface{}) (interface{}, error) {
	var input domain.CategoryInput
	if err := requireObject(args); err != nil {
		return nil, err
	}
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}
	return d.categories.AddCategory(ctx, input)
}

func (d *Dispatcher) updateCategory(ctx context.Context, args interface{}) (interface{}, error) {
	if err := requireObject(args); err != nil {
		return nil, err
	}
	id, err := idArg(args)
	if err != nil {
		return nil, err
	}
	var patch domain.CategoryPatch
	if err := decodeArgs(args, &patch); err != nil {
		return nil, err
	}
	return d.categories.UpdateCategory(ctx, id, patch)
}

func (d *Dispatcher) deleteCategory(ctx context.Context, args interface{}) (interface{}, error) {
	id, err := idArg(args)
	if err != nil {
		return nil, err
	}
	return d.categories.DeleteCategory(ctx, id)
}

func (d *Dispatcher) recordSale(ctx context.Context, args interface{}) (interface{}, error) {
	lines, err := saleLinesArg(args)
	if err != nil {
		return nil, err
	}
	return d.sales.RecordSale(ctx, lines)
}

func (d *Dispatcher) listSales(_ context.Context, _ interface{}) (interface{}, error) {
	return d.sales.ListSales(), nil
}

func (d *Dispatcher) getSale(_ context.Context, args interface{}) (interface{}, error) {
	id, err := idArg(args)
	if err != nil {
		return nil, err
	}
	return d.sales.GetSale(id)
}

func (d *Dispatcher) searchSales(_ context.Context, args interface{}) (interface{}, error) {
	params := searchSalesArgs{NewestFirst: true}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}
	return d.reports.SearchSales(params.Query, params.NewestFirst), nil
}

func (d *Dispatcher) salesSummary(_ context.Context, _ interface{}) (interface{}, error) {
	return d.reports.SalesSummary(), nil
}

func (d *Dispatcher) lowStock(_ context.Context, args interface{}) (interface{}, error) {
	threshold, err := thresholdArg(args, d.reports.DefaultLowStockThreshold())
	if err != nil {
		return nil, err
	}
	return d.reports.LowStock(threshold)
}

// backup always writes to the configured directory; callers cannot pick a path.
func (d *Dispatcher) backup(ctx context.Context, _ interface{}) (interface{}, error) {
	path, err := d.maintenance.Backup(ctx, "")
	if err != nil {
		return nil, err
	}
	return map[string]string{"path": path}, nil
}

func (d *Dispatcher) resetDatabase(ctx context.Context, _ interface{}) (interface{}, error) {
	if err := d.maintenance.Reset(ctx); err != nil {
		return nil, err
	}
	return map[string]interface{}{}, nil
}

func requireObject(args interface{}) error {
	if _, ok := normalizeArgs(args).(map[string]interface{}); !ok {
		return domain.Invalidf("arguments must be an object")
	}
	return nil
}
