package dispatcher

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"pos_service/internal/domain"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalHook turns numbers and numeric strings into decimal.Decimal.
func decimalHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType || data == nil {
		return data, nil
	}
	if d, ok := data.(decimal.Decimal); ok {
		return d, nil
	}
	s, err := cast.ToStringE(data)
	if err != nil {
		return nil, fmt.Errorf("expected a number, got %T", data)
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

// integralHook refuses to truncate fractional or out-of-range numbers into
// integer fields.
func integralHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Int {
		return data, nil
	}
	if f, ok := data.(float64); ok {
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected a whole number, got %v", f)
		}
		if f >= math.MaxInt64 || f < math.MinInt64 {
			return nil, fmt.Errorf("number %v is out of range", f)
		}
	}
	return data, nil
}

// decodeArgs decodes loosely typed operation arguments into out. JSON tags
// name the fields; numbers given as strings and the reverse are accepted.
func decodeArgs(args interface{}, out interface{}) error {
	args = normalizeArgs(args)
	if args == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(integralHook, decimalHook),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return domain.Invalidf("malformed arguments: %v", err)
	}
	return nil
}

// normalizeArgs unwraps raw JSON payloads into plain Go values.
func normalizeArgs(args interface{}) interface{} {
	switch v := args.(type) {
	case json.RawMessage:
		return unmarshalLoose(v)
	case []byte:
		return unmarshalLoose(v)
	default:
		return args
	}
}

func unmarshalLoose(data []byte) interface{} {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	return v
}

type idArgs struct {
	ID interface{} `json:"id"`
}

// idArg accepts either a bare id or an object with an id field. Numeric ids
// from older documents are turned into their decimal string form.
func idArg(args interface{}) (string, error) {
	args = normalizeArgs(args)
	raw := args
	if m, ok := args.(map[string]interface{}); ok {
		var holder idArgs
		if err := decodeArgs(m, &holder); err != nil {
			return "", err
		}
		raw = holder.ID
	}
	switch raw.(type) {
	case nil:
		return "", domain.Invalidf("id is required")
	case map[string]interface{}, []interface{}, bool:
		return "", domain.Invalidf("id must be a string or number, got %T", raw)
	}
	id, err := cast.ToStringE(raw)
	if err != nil {
		return "", domain.Invalidf("id must be a string or number, got %T", raw)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.Invalidf("id is required")
	}
	return id, nil
}

// saleLineArgs is one cart or sale line. Cart items carry the product id in
// "id"; explicit sale lines use "productId".
type saleLineArgs struct {
	ProductID interface{} `json:"productId"`
	ID        interface{} `json:"id"`
	Quantity  int         `json:"quantity"`
}

type recordSaleArgs struct {
	Items []saleLineArgs `json:"items"`
}

func saleLinesArg(args interface{}) ([]domain.SaleLine, error) {
	args = normalizeArgs(args)
	var parsed recordSaleArgs
	switch args.(type) {
	case []interface{}:
		if err := decodeArgs(args, &parsed.Items); err != nil {
			return nil, err
		}
	case map[string]interface{}:
		if err := decodeArgs(args, &parsed); err != nil {
			return nil, err
		}
	default:
		return nil, domain.Invalidf("sale requires a list of items")
	}

	lines := make([]domain.SaleLine, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		ref := item.ProductID
		if ref == nil {
			ref = item.ID
		}
		productID := ""
		if ref != nil {
			id, err := idArg(ref)
			if err != nil {
				return nil, domain.Invalidf("items[%d]: product id must be a string or number", i)
			}
			productID = id
		}
		lines = append(lines, domain.SaleLine{ProductID: productID, Quantity: item.Quantity})
	}
	return lines, nil
}

type searchSalesArgs struct {
	Query       string `json:"query"`
	NewestFirst bool   `json:"newestFirst"`
}

type lowStockArgs struct {
	Threshold int `json:"threshold"`
}

// thresholdArg accepts {threshold: n}, a bare number or nothing.
func thresholdArg(args interface{}, fallback int) (int, error) {
	args = normalizeArgs(args)
	switch args.(type) {
	case nil:
		return fallback, nil
	case map[string]interface{}:
		params := lowStockArgs{Threshold: fallback}
		if err := decodeArgs(args, &params); err != nil {
			return 0, err
		}
		return params.Threshold, nil
	}
	threshold, err := cast.ToIntE(args)
	if err != nil {
		return 0, domain.Invalidf("threshold must be a whole number")
	}
	return threshold, nil
}
