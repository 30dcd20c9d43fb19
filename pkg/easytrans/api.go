package easytrans

import (
	"context"
	"iter"
	"net/http"
	"time"
)

// Iterator walks every item of a paginated list, fetching pages as needed.
// It is forward-only and cannot be restarted.
type Iterator[T any] interface {
	// Next advances to the next item, fetching the next page when the
	// current one is exhausted. It returns false at the end or on error.
	Next(ctx context.Context) bool
	// Item returns the current item.
	Item() T
	// Page returns the pagination metadata of the most recently fetched
	// page, or nil before the first fetch.
	Page() *Meta
	// Err returns the error that stopped iteration, if any.
	Err() error
	// All adapts the iterator to a range-over-func sequence.
	All(ctx context.Context) iter.Seq2[T, error]
}

// Recorder receives one measurement per backend call. Backend is "import"
// or "rest"; status is "success" or the error Kind.
type Recorder interface {
	RecordRequest(backend, operation, status string, duration time.Duration)
	RecordError(backend string, kind Kind)
}

// ReferenceData is a snapshot of the lookup tables orders refer to.
type ReferenceData struct {
	Products     []RestProduct     `json:"products"`
	Substatuses  []RestSubstatus   `json:"substatuses"`
	PackageTypes []RestPackageType `json:"packageTypes"`
	VehicleTypes []RestVehicleType `json:"vehicleTypes"`
}

// API is the full surface of the client. client.Client implements it,
// over the HTTP transports or over the in-memory mock backend.
type API interface {
	// Import endpoint.
	ImportOrders(ctx context.Context, orders []Order, opts ...ImportOption) (*OrderResult, error)
	ImportCustomers(ctx context.Context, customers []Customer, opts ...ImportOption) (*CustomerResult, error)

	// Webhooks.
	ParseWebhook(payload []byte, expectedKey string, headers http.Header) (*WebhookPayload, error)

	// Orders.
	GetOrders(ctx context.Context, opts OrderListOptions) (*Page[RestOrder], error)
	IterOrders(ctx context.Context, opts OrderListOptions) Iterator[RestOrder]
	GetOrder(ctx context.Context, orderNo int, inc OrderIncludes) (*RestOrder, error)
	UpdateOrder(ctx context.Context, orderNo int, update OrderUpdate) (*RestOrder, error)

	// Reference data.
	GetProducts(ctx context.Context, opts NameFilterOptions) (*Page[RestProduct], error)
	GetProduct(ctx context.Context, productNo int, includeDeleted bool) (*RestProduct, error)
	GetSubstatuses(ctx context.Context, opts NameFilterOptions) (*Page[RestSubstatus], error)
	GetSubstatus(ctx context.Context, substatusNo int, includeDeleted bool) (*RestSubstatus, error)
	GetPackageTypes(ctx context.Context, opts NameFilterOptions) (*Page[RestPackageType], error)
	GetPackageType(ctx context.Context, packageTypeNo int, includeDeleted bool) (*RestPackageType, error)
	GetVehicleTypes(ctx context.Context, opts NameFilterOptions) (*Page[RestVehicleType], error)
	GetVehicleType(ctx context.Context, vehicleTypeNo int, includeDeleted bool) (*RestVehicleType, error)
	ReferenceData(ctx context.Context) (*ReferenceData, error)

	// Customers and carriers (branch accounts).
	GetCustomers(ctx context.Context, opts ListOptions) (*Page[RestCustomer], error)
	IterCustomers(ctx context.Context, opts ListOptions) Iterator[RestCustomer]
	GetCustomer(ctx context.Context, customerNo int, includeDeleted bool) (*RestCustomer, error)
	GetCarriers(ctx context.Context, opts ListOptions) (*Page[RestCarrier], error)
	IterCarriers(ctx context.Context, opts ListOptions) Iterator[RestCarrier]
	GetCarrier(ctx context.Context, carrierNo int, includeDeleted bool) (*RestCarrier, error)

	// Fleet (branch accounts).
	GetFleet(ctx context.Context, opts FleetListOptions) (*Page[RestFleetVehicle], error)
	GetFleetVehicle(ctx context.Context, fleetNo int, includeDeleted bool) (*RestFleetVehicle, error)

	// Invoices.
	GetInvoices(ctx context.Context, opts InvoiceListOptions) (*Page[RestInvoice], error)
	IterInvoices(ctx context.Context, opts InvoiceListOptions) Iterator[RestInvoice]
	GetInvoice(ctx context.Context, invoiceID int, inc InvoiceIncludes) (*RestInvoice, error)

	// Orders assigned to the account (carrier accounts).
	GetCarrierOrders(ctx context.Context, opts OrderListOptions) (*Page[RestOrder], error)
	IterCarrierOrders(ctx context.Context, opts OrderListOptions) Iterator[RestOrder]
	GetCarrierOrder(ctx context.Context, orderNo int, inc OrderIncludes) (*RestOrder, error)
	UpdateCarrierOrder(ctx context.Context, orderNo int, update CarrierOrderUpdate) (*RestOrder, error)

	Close() error
}
