package easytrans

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderTrackTrace holds the tracking numbers and URLs of an imported order.
type OrderTrackTrace struct {
	LocalTrackingNo     string `json:"local_trackingnr"`
	LocalTrackTraceURL  string `json:"local_tracktrace_url"`
	GlobalTrackingNo    string `json:"global_trackingnr"`
	GlobalTrackTraceURL string `json:"global_tracktrace_url"`
	// Status is one of quote, saved-weborder, pending-acceptation, accepted.
	Status string `json:"status"`
}

// RateLine is one priced line of an order's rates.
type RateLine struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// OrderRate is the calculated price of an imported order, returned when
// rates were requested.
type OrderRate struct {
	Rates                  []RateLine      `json:"rates"`
	OrderTotalExcludingVAT decimal.Decimal `json:"order_total_excluding_vat"`
	OrderTotalIncludingVAT decimal.Decimal `json:"order_total_including_vat"`
	Warnings               string          `json:"warnings,omitempty"`
}

// OrderResult is the outcome of an order import. The maps are keyed by
// order number.
type OrderResult struct {
	Mode                   Mode                       `json:"mode"`
	TotalOrders            int                        `json:"total_orders"`
	TotalOrderDestinations int                        `json:"total_order_destinations"`
	TotalOrderPackages     int                        `json:"total_order_packages"`
	ResultDescription      string                     `json:"result_description"`
	NewOrderNos            []int                      `json:"new_ordernos"`
	OrderTrackTrace        map[int]OrderTrackTrace    `json:"order_tracktrace,omitempty"`
	OrderRates             map[int]OrderRate          `json:"order_rates,omitempty"`
	OrderDocuments         map[int]map[string]string  `json:"order_documents,omitempty"`
	PacksResponse          map[string]json.RawMessage `json:"packs_response,omitempty"`
	GLSResponse            map[string]json.RawMessage `json:"gls_response,omitempty"`
}

var orderResultRequired = []string{
	"mode", "total_orders", "total_order_destinations",
	"total_order_packages", "result_description", "new_ordernos",
}

// ParseOrderResult decodes the success payload of an order import.
func ParseOrderResult(data []byte) (*OrderResult, error) {
	fields, err := decodeObject("order result", data)
	if err != nil {
		return nil, err
	}
	if err := requireFields("order result", fields, orderResultRequired...); err != nil {
		return nil, err
	}

	// The backend sends an empty array instead of an empty object for the
	// keyed maps; blank them so they decode.
	for _, key := range []string{"order_tracktrace", "order_rates", "order_documents", "packs_response", "gls_response"} {
		if isEmptyArray(fields[key]) {
			delete(fields, key)
		}
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, NewError(KindValidation, 0, "invalid order result").WithCause(err)
	}

	var r OrderResult
	if err := json.Unmarshal(normalized, &r); err != nil {
		return nil, NewError(KindValidation, 0, "invalid order result").WithCause(err)
	}
	return &r, nil
}

// CustomerResult is the outcome of a customer import. NewUserIDs maps a
// customer number to the user ids created for its contacts.
type CustomerResult struct {
	Mode                  Mode          `json:"mode"`
	TotalCustomers        int           `json:"total_customers"`
	TotalCustomerContacts int           `json:"total_customer_contacts"`
	ResultDescription     string        `json:"result_description"`
	NewCustomerNos        []int         `json:"new_customernos"`
	NewUserIDs            map[int][]int `json:"new_userids,omitempty"`
}

var customerResultRequired = []string{
	"mode", "total_customers", "total_customer_contacts",
	"result_description", "new_customernos",
}

// ParseCustomerResult decodes the success payload of a customer import.
func ParseCustomerResult(data []byte) (*CustomerResult, error) {
	fields, err := decodeObject("customer result", data)
	if err != nil {
		return nil, err
	}
	if err := requireFields("customer result", fields, customerResultRequired...); err != nil {
		return nil, err
	}
	if isEmptyArray(fields["new_userids"]) {
		delete(fields, "new_userids")
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, NewError(KindValidation, 0, "invalid customer result").WithCause(err)
	}

	var r CustomerResult
	if err := json.Unmarshal(normalized, &r); err != nil {
		return nil, NewError(KindValidation, 0, "invalid customer result").WithCause(err)
	}
	return &r, nil
}

// SortedOrderNos returns the keys of the track and trace map in order.
func (r *OrderResult) SortedOrderNos() []int {
	nos := make([]int, 0, len(r.OrderTrackTrace))
	for no := range r.OrderTrackTrace {
		nos = append(nos, no)
	}
	sort.Ints(nos)
	return nos
}

// decodeObject decodes data as a JSON object into its raw members.
func decodeObject(what string, data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, NewError(KindValidation, 0, what+" is not a JSON object").WithCause(err)
	}
	if fields == nil {
		return nil, NewError(KindValidation, 0, what+" is not a JSON object")
	}
	return fields, nil
}

// requireFields fails with a ValidationError naming every absent or null
// member of fields.
func requireFields(what string, fields map[string]json.RawMessage, names ...string) error {
	var missing []string
	for _, name := range names {
		if raw, ok := fields[name]; !ok || isNull(raw) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return NewError(KindValidation, 0, what+" missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func isEmptyArray(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "[") && strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(s, "]"), "[")) == ""
}
