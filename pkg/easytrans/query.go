package easytrans

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// Operator is a comparison operator of a filter.
type Operator string

const (
	OpGTE Operator = "gte"
	OpGT  Operator = "gt"
	OpLTE Operator = "lte"
	OpLT  Operator = "lt"
	OpNEQ Operator = "neq"
)

var operators = map[Operator]bool{OpGTE: true, OpGT: true, OpLTE: true, OpLT: true, OpNEQ: true}

// Ops holds operator comparisons on one field, e.g. Ops{OpGTE: "2024-01-01"}.
type Ops map[Operator]any

// Filter maps a field to either a primitive (equality) or Ops. Primitives
// are strings, integers, floats and booleans.
type Filter map[string]any

// Include is an optional expansion of a REST response.
type Include int

const (
	IncludeCustomer Include = iota + 1
	IncludeCarrier
	IncludeTrackHistory
	IncludeSalesRates
	IncludePurchaseRates
	IncludeDeleted
	IncludeInvoicePDF
)

// IncludeParams maps each Include to the query parameter that enables it.
var IncludeParams = map[Include]string{
	IncludeCustomer:      "include_customer",
	IncludeCarrier:       "include_carrier",
	IncludeTrackHistory:  "include_track_history",
	IncludeSalesRates:    "include_sales_rates",
	IncludePurchaseRates: "include_purchase_rates",
	IncludeDeleted:       "include_deleted",
	IncludeInvoicePDF:    "include_invoice",
}

// QueryOptions are the parameters of a REST list or get request.
type QueryOptions struct {
	Filter   Filter
	Sort     string
	Page     int
	Includes []Include
}

// BuildQuery encodes opts as REST query parameters:
//
//	Filter{"status": "planned"}              -> filter[status]=planned
//	Filter{"date": Ops{OpGTE: "2024-01-01"}} -> filter[date][gte]=2024-01-01
func BuildQuery(opts QueryOptions) (url.Values, error) {
	q := url.Values{}

	fields := make([]string, 0, len(opts.Filter))
	for f := range opts.Filter {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if field == "" {
			return nil, NewError(KindValidation, 0, "filter field name is empty")
		}
		switch v := opts.Filter[field].(type) {
		case Ops:
			if err := addOps(q, field, v); err != nil {
				return nil, err
			}
		case map[Operator]any:
			if err := addOps(q, field, Ops(v)); err != nil {
				return nil, err
			}
		case map[string]any:
			ops := make(Ops, len(v))
			for op, val := range v {
				ops[Operator(op)] = val
			}
			if err := addOps(q, field, ops); err != nil {
				return nil, err
			}
		default:
			s, err := formatLeaf(field, v)
			if err != nil {
				return nil, err
			}
			q.Set("filter["+field+"]", s)
		}
	}

	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	for _, inc := range opts.Includes {
		param, ok := IncludeParams[inc]
		if !ok {
			return nil, NewError(KindValidation, 0, fmt.Sprintf("unknown include %d", inc))
		}
		q.Set(param, "true")
	}
	return q, nil
}

func addOps(q url.Values, field string, ops Ops) error {
	if len(ops) == 0 {
		return NewError(KindValidation, 0, "filter on "+field+" has no operators")
	}
	for op, val := range ops {
		if !operators[op] {
			return NewError(KindValidation, 0, fmt.Sprintf("unknown filter operator %q on %s", op, field))
		}
		s, err := formatLeaf(field, val)
		if err != nil {
			return err
		}
		q.Set("filter["+field+"]["+string(op)+"]", s)
	}
	return nil
}

// formatLeaf renders a filter value. Anything but a primitive is rejected,
// which also rules out nesting deeper than one operator level.
func formatLeaf(field string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int8:
		return strconv.FormatInt(int64(t), 10), nil
	case int16:
		return strconv.FormatInt(int64(t), 10), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", NewError(KindValidation, 0, fmt.Sprintf("filter value for %s must be a string, number or bool, got %T", field, v))
	}
}
