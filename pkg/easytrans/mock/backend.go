package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/importapi"
	"github.com/tournevent/easytrans/pkg/easytrans/restapi"
)

// Collection paths served by Backend.
const (
	Orders        = "/orders"
	CarrierOrders = "/carrier/orders"
	Customers     = "/customers"
	Carriers      = "/carriers"
	Fleet         = "/fleet"
	Invoices      = "/invoices"
	Products      = "/products"
	Substatuses   = "/substatuses"
	PackageTypes  = "/packagetypes"
	VehicleTypes  = "/vehicletypes"
)

var collections = []string{
	Orders, CarrierOrders, Customers, Carriers, Fleet, Invoices,
	Products, Substatuses, PackageTypes, VehicleTypes,
}

// Backend is an in-memory EasyTrans environment. It implements both
// transport interfaces, so a client built on it runs the same decoding,
// paging and error paths as against the real service.
//
// Orders imported in effect mode become visible to the REST side.
type Backend struct {
	// OnRequest, when set, runs before every call; a non-nil error is
	// returned instead of the normal response. method is "IMPORT" for
	// import calls, with path set to the import type.
	OnRequest func(method, path string) error

	mu             sync.Mutex
	pageSize       int
	nextOrderNo    int
	nextCustomerNo int
	records        map[string][]record
	imports        []importapi.Request
	now            func() time.Time
}

// NewBackend returns an empty environment serving 100 items per page.
func NewBackend() *Backend {
	return &Backend{
		pageSize:       100,
		nextOrderNo:    35558,
		nextCustomerNo: 1001,
		records:        map[string][]record{},
		now:            time.Now,
	}
}

// SetPageSize changes the number of items per list page.
func (b *Backend) SetPageSize(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > 0 {
		b.pageSize = n
	}
}

// Imports returns every import request received so far.
func (b *Backend) Imports() []importapi.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]importapi.Request(nil), b.imports...)
}

func (b *Backend) add(path string, no int, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[path] = append(b.records[path], record{no: no, value: v})
}

func identify(res *easytrans.Resource, typ string, no int) {
	if res.Type == "" {
		res.Type = typ
	}
	if res.ID == "" {
		res.ID = easytrans.EntityID(strconv.Itoa(no))
	}
}

// AddOrders stores orders visible to a branch account.
func (b *Backend) AddOrders(orders ...easytrans.RestOrder) {
	for _, o := range orders {
		identify(&o.Resource, "order", o.Attributes.OrderNo)
		b.add(Orders, o.Attributes.OrderNo, &o)
	}
}

// AddCarrierOrders stores orders assigned to a carrier account.
func (b *Backend) AddCarrierOrders(orders ...easytrans.RestOrder) {
	for _, o := range orders {
		identify(&o.Resource, "order", o.Attributes.OrderNo)
		b.add(CarrierOrders, o.Attributes.OrderNo, &o)
	}
}

// AddCustomers stores customers.
func (b *Backend) AddCustomers(customers ...easytrans.RestCustomer) {
	for _, c := range customers {
		identify(&c.Resource, "customer", c.CustomerNo)
		b.add(Customers, c.CustomerNo, &c)
	}
}

// AddCarriers stores carriers.
func (b *Backend) AddCarriers(carriers ...easytrans.RestCarrier) {
	for _, c := range carriers {
		identify(&c.Resource, "carrier", c.CarrierNo)
		b.add(Carriers, c.CarrierNo, &c)
	}
}

// AddFleet stores fleet vehicles.
func (b *Backend) AddFleet(vehicles ...easytrans.RestFleetVehicle) {
	for _, v := range vehicles {
		identify(&v.Resource, "fleet", v.FleetNo)
		b.add(Fleet, v.FleetNo, &v)
	}
}

// AddInvoices stores invoices.
func (b *Backend) AddInvoices(invoices ...easytrans.RestInvoice) {
	for _, inv := range invoices {
		identify(&inv.Resource, "invoice", inv.InvoiceID)
		b.add(Invoices, inv.InvoiceID, &inv)
	}
}

// AddReferenceData stores lookup tables.
func (b *Backend) AddReferenceData(ref easytrans.ReferenceData) {
	for _, p := range ref.Products {
		identify(&p.Resource, "product", p.ProductNo)
		b.add(Products, p.ProductNo, &p)
	}
	for _, s := range ref.Substatuses {
		identify(&s.Resource, "substatus", s.SubstatusNo)
		b.add(Substatuses, s.SubstatusNo, &s)
	}
	for _, t := range ref.PackageTypes {
		identify(&t.Resource, "packagetype", t.PackageTypeNo)
		b.add(PackageTypes, t.PackageTypeNo, &t)
	}
	for _, t := range ref.VehicleTypes {
		identify(&t.Resource, "vehicletype", t.VehicleTypeNo)
		b.add(VehicleTypes, t.VehicleTypeNo, &t)
	}
}

// Do serves a REST request from the stored records.
func (b *Backend) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if method != http.MethodGet && method != http.MethodPut {
		return nil, easytrans.NewError(easytrans.KindAPI, 0, "unsupported HTTP method: "+method)
	}
	if err := ctx.Err(); err != nil {
		return nil, easytrans.NewError(easytrans.KindAPI, 0, "request cancelled").WithCause(err)
	}
	if b.OnRequest != nil {
		if err := b.OnRequest(method, path); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if isCollection(path) {
		if method != http.MethodGet {
			return nil, httpError(http.StatusMethodNotAllowed, "The PUT method is not supported for this route.")
		}
		return b.list(path, query)
	}

	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return nil, httpError(http.StatusNotFound, "The route "+path+" could not be found.")
	}
	parent := path[:i]
	n, err := strconv.Atoi(path[i+1:])
	if err != nil || !isCollection(parent) {
		return nil, httpError(http.StatusNotFound, "The route "+path+" could not be found.")
	}
	if method == http.MethodPut && parent != Orders && parent != CarrierOrders {
		return nil, httpError(http.StatusMethodNotAllowed, "The PUT method is not supported for this route.")
	}

	rec := b.find(parent, n, query.Get("include_deleted") == "true")
	if rec == nil {
		return nil, httpError(http.StatusNotFound, "No query results")
	}

	if method == http.MethodPut {
		if err := b.update(parent, rec, body); err != nil {
			return nil, err
		}
		query = url.Values{}
	}
	return json.Marshal(map[string]any{"data": b.render(parent, query)(*rec)})
}

// List serves a list request.
func (b *Backend) List(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return b.Do(ctx, http.MethodGet, path, query, nil)
}

// Close is a no-op.
func (b *Backend) Close() error {
	return nil
}

func isCollection(path string) bool {
	for _, c := range collections {
		if c == path {
			return true
		}
	}
	return false
}

func httpError(status int, message string) *easytrans.Error {
	return easytrans.NewError(easytrans.HTTPErrorKind(status), status, message).WithStatusCode(status)
}

func (b *Backend) list(path string, query url.Values) (json.RawMessage, error) {
	selected, err := selectRecords(b.records[path], query)
	if err != nil {
		return nil, httpError(http.StatusUnprocessableEntity, err.Error())
	}
	page := 1
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		page = p
	}
	return listBody(path, selected, page, b.pageSize, b.render(path, query))
}

func (b *Backend) find(path string, no int, includeDeleted bool) *record {
	for i := range b.records[path] {
		r := &b.records[path][i]
		if r.no != no {
			continue
		}
		if !includeDeleted && isDeleted(flatten(r.value)) {
			return nil
		}
		return r
	}
	return nil
}

// render returns the wire form of a record. Orders honour the include
// flags: optional members are dropped unless asked for, and the customer
// and carrier are embedded on request.
func (b *Backend) render(path string, query url.Values) func(record) any {
	switch path {
	case Orders, CarrierOrders:
	case Products, Substatuses, PackageTypes, VehicleTypes, Fleet:
		return func(r record) any { return wrapped(r.value) }
	default:
		return func(r record) any { return r.value }
	}
	include := func(name string) bool { return query.Get("include_"+name) == "true" }

	return func(r record) any {
		view, _ := json.Marshal(r.value)
		var m map[string]any
		_ = json.Unmarshal(view, &m)
		attrs, _ := m["attributes"].(map[string]any)
		if attrs == nil {
			return m
		}
		for member, flag := range map[string]string{
			"trackHistory":  "track_history",
			"salesRates":    "sales_rates",
			"purchaseRates": "purchase_rates",
		} {
			if !include(flag) {
				delete(attrs, member)
			}
		}
		if include("customer") {
			if no, ok := attrs["customerNo"].(float64); ok {
				if c := b.find(Customers, int(no), true); c != nil {
					attrs["customer"] = c.value
				}
			}
		}
		if include("carrier") {
			if no, ok := attrs["carrierNo"].(float64); ok {
				if c := b.find(Carriers, int(no), true); c != nil {
					attrs["carrier"] = c.value
				}
			}
		}
		return m
	}
}

// wrapped moves everything but the resource identity of v under an
// attributes member, the shape lookup tables are served in.
func wrapped(v any) map[string]any {
	m := flatten(v)
	out := map[string]any{"attributes": m}
	for _, key := range []string{"type", "id", "createdAt", "updatedAt"} {
		if val, ok := m[key]; ok {
			out[key] = val
			delete(m, key)
		}
	}
	return out
}

func (b *Backend) update(path string, rec *record, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return httpError(http.StatusUnprocessableEntity, "invalid request body")
	}
	order := rec.value.(*easytrans.RestOrder)

	if path == CarrierOrders {
		var u easytrans.CarrierOrderUpdate
		if err := json.Unmarshal(data, &u); err != nil {
			return httpError(http.StatusUnprocessableEntity, "invalid request body")
		}
		applyCarrierUpdate(&order.Attributes, u)
		order.UpdatedAt = b.now().Format(time.RFC3339)
		return nil
	}

	var u easytrans.OrderUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return httpError(http.StatusUnprocessableEntity, "invalid request body")
	}
	if u.CarrierNo != nil && *u.CarrierNo != 0 && b.find(Carriers, *u.CarrierNo, false) == nil {
		return httpError(http.StatusUnprocessableEntity, "The given data was invalid.").
			WithDetails(fmt.Sprintf(`{"carrierNo":["The selected carrier no %d is invalid."]}`, *u.CarrierNo))
	}
	applyOrderUpdate(&order.Attributes, u)
	order.UpdatedAt = b.now().Format(time.RFC3339)
	return nil
}

// Ensure Backend implements both transport interfaces
var (
	_ importapi.APIClient = (*Backend)(nil)
	_ restapi.APIClient   = (*Backend)(nil)
)
