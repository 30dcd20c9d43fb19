package easytrans

import (
	"github.com/shopspring/decimal"
)

// ImportOptions are the per-call settings of an import request.
type ImportOptions struct {
	Mode            Mode
	ReturnRates     bool
	ReturnDocuments ReturnDocumentType
	// OrderType selects the order import variant. Empty means
	// AuthOrderImport; ignored for customer imports.
	OrderType AuthType
}

// ImportOption changes ImportOptions.
type ImportOption func(*ImportOptions)

// WithMode overrides the client's default mode for one import.
func WithMode(m Mode) ImportOption {
	return func(o *ImportOptions) { o.Mode = m }
}

// WithReturnRates asks the backend to calculate and return order rates.
func WithReturnRates() ImportOption {
	return func(o *ImportOptions) { o.ReturnRates = true }
}

// WithReturnDocuments asks the backend to return a document per order.
func WithReturnDocuments(doc ReturnDocumentType) ImportOption {
	return func(o *ImportOptions) { o.ReturnDocuments = doc }
}

// WithOrderType routes an order import through the Packs or GLS variant.
func WithOrderType(t AuthType) ImportOption {
	return func(o *ImportOptions) { o.OrderType = t }
}

// ApplyImportOptions applies opts on top of a default mode.
func ApplyImportOptions(defaultMode Mode, opts ...ImportOption) ImportOptions {
	o := ImportOptions{Mode: defaultMode}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// OrderIncludes selects the optional expansions of order responses.
// Carrier, PurchaseRates and Deleted are branch-only.
type OrderIncludes struct {
	Customer      bool
	Carrier       bool
	TrackHistory  bool
	SalesRates    bool
	PurchaseRates bool
	Deleted       bool
}

// Includes returns the selected expansions.
func (i OrderIncludes) Includes() []Include {
	var out []Include
	for _, sel := range []struct {
		on  bool
		inc Include
	}{
		{i.Customer, IncludeCustomer},
		{i.Carrier, IncludeCarrier},
		{i.TrackHistory, IncludeTrackHistory},
		{i.SalesRates, IncludeSalesRates},
		{i.PurchaseRates, IncludePurchaseRates},
		{i.Deleted, IncludeDeleted},
	} {
		if sel.on {
			out = append(out, sel.inc)
		}
	}
	return out
}

// OrderListOptions filter, sort and expand an order list. Page 0 means the
// first page.
type OrderListOptions struct {
	Filter Filter
	Sort   string
	Page   int
	OrderIncludes
}

// Query returns the REST query options.
func (o OrderListOptions) Query() QueryOptions {
	return QueryOptions{Filter: o.Filter, Sort: o.Sort, Page: o.Page, Includes: o.Includes()}
}

// ListOptions filter and sort the customer and carrier lists.
type ListOptions struct {
	Filter         Filter
	Sort           string
	Page           int
	IncludeDeleted bool
}

// Query returns the REST query options.
func (o ListOptions) Query() QueryOptions {
	q := QueryOptions{Filter: o.Filter, Sort: o.Sort, Page: o.Page}
	if o.IncludeDeleted {
		q.Includes = []Include{IncludeDeleted}
	}
	return q
}

// NameFilterOptions filter a reference data list by (part of) the name.
type NameFilterOptions struct {
	Name           string
	IncludeDeleted bool
}

// Query returns the REST query options, filtering nameField on Name.
func (o NameFilterOptions) Query(nameField string) QueryOptions {
	var q QueryOptions
	if o.Name != "" {
		q.Filter = Filter{nameField: o.Name}
	}
	if o.IncludeDeleted {
		q.Includes = []Include{IncludeDeleted}
	}
	return q
}

// FleetListOptions filter the fleet by (part of) the license plate.
type FleetListOptions struct {
	Registration   string
	IncludeDeleted bool
}

// Query returns the REST query options.
func (o FleetListOptions) Query() QueryOptions {
	return NameFilterOptions{Name: o.Registration, IncludeDeleted: o.IncludeDeleted}.Query("registration")
}

// InvoiceIncludes selects the optional expansions of invoice responses.
// PDF noticeably increases response size.
type InvoiceIncludes struct {
	Customer bool
	PDF      bool
}

// Includes returns the selected expansions.
func (i InvoiceIncludes) Includes() []Include {
	var out []Include
	if i.Customer {
		out = append(out, IncludeCustomer)
	}
	if i.PDF {
		out = append(out, IncludeInvoicePDF)
	}
	return out
}

// InvoiceListOptions filter and expand the invoice list.
type InvoiceListOptions struct {
	Filter Filter
	Page   int
	InvoiceIncludes
}

// Query returns the REST query options.
func (o InvoiceListOptions) Query() QueryOptions {
	return QueryOptions{Filter: o.Filter, Page: o.Page, Includes: o.Includes()}
}

// DestinationUpdate changes one destination of an order, identified by
// AddressID or StopNo. Nil fields are left unchanged.
type DestinationUpdate struct {
	AddressID         *int    `json:"addressId,omitempty"`
	StopNo            *int    `json:"stopNo,omitempty"`
	Company           *string `json:"company,omitempty"`
	Contact           *string `json:"contact,omitempty"`
	Address           *string `json:"address,omitempty"`
	HouseNo           *string `json:"houseno,omitempty"`
	Address2          *string `json:"address2,omitempty"`
	Postcode          *string `json:"postcode,omitempty"`
	City              *string `json:"city,omitempty"`
	Country           *string `json:"country,omitempty"`
	Phone             *string `json:"phone,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	CustomerReference *string `json:"customerReference,omitempty"`
	WaybillNo         *string `json:"waybillNo,omitempty"`
	Date              *string `json:"date,omitempty"`
	FromTime          *string `json:"fromTime,omitempty"`
	ToTime            *string `json:"toTime,omitempty"`
}

// GoodsUpdate changes one goods line, identified by PackageID or PackageNo.
type GoodsUpdate struct {
	PackageID           *int     `json:"packageId,omitempty"`
	PackageNo           *int     `json:"packageNo,omitempty"`
	PickupDestination   *int     `json:"pickupDestination,omitempty"`
	DeliveryDestination *int     `json:"deliveryDestination,omitempty"`
	Amount              *int     `json:"amount,omitempty"`
	PackageTypeNo       *int     `json:"packageTypeNo,omitempty"`
	Weight              *float64 `json:"weight,omitempty"`
	Length              *float64 `json:"length,omitempty"`
	Width               *float64 `json:"width,omitempty"`
	Height              *float64 `json:"height,omitempty"`
	Description         *string  `json:"description,omitempty"`
}

// RateUpdate changes or adds a rate line, identified by RateNo.
type RateUpdate struct {
	RateNo          *int             `json:"rateNo,omitempty"`
	Description     *string          `json:"description,omitempty"`
	RatePerUnit     *decimal.Decimal `json:"ratePerUnit,omitempty"`
	SubTotal        *decimal.Decimal `json:"subTotal,omitempty"`
	IsMinimumAmount *bool            `json:"isMinimumAmount,omitempty"`
	IsPercentage    *bool            `json:"isPercentage,omitempty"`
}

// OrderUpdate is a partial update of an order (branch accounts). Only
// non-nil fields are sent; CarrierNo pointing at 0 removes the carrier.
type OrderUpdate struct {
	CarrierNo               *int                `json:"carrierNo,omitempty"`
	FleetNo                 *int                `json:"fleetNo,omitempty"`
	WaybillNotes            *string             `json:"waybillNotes,omitempty"`
	InvoiceNotes            *string             `json:"invoiceNotes,omitempty"`
	PurchaseInvoiceNotes    *string             `json:"purchaseInvoiceNotes,omitempty"`
	InternalNotes           *string             `json:"internalNotes,omitempty"`
	ReadyForPurchaseInvoice *bool               `json:"readyForPurchaseInvoice,omitempty"`
	ExternalID              *string             `json:"externalId,omitempty"`
	Destinations            []DestinationUpdate `json:"destinations,omitempty"`
	Goods                   []GoodsUpdate       `json:"goods,omitempty"`
	SalesRates              []RateUpdate        `json:"salesRates,omitempty"`
	PurchaseRates           []RateUpdate        `json:"purchaseRates,omitempty"`
}

// Validate checks the update before it is sent.
func (u OrderUpdate) Validate() error {
	if u.ExternalID != nil && len(*u.ExternalID) > 50 {
		return NewError(KindValidation, 0, "externalId must be at most 50 characters")
	}
	return nil
}

// CarrierOrderUpdate is a partial update of an order by its assigned
// carrier (carrier accounts).
type CarrierOrderUpdate struct {
	CarrierNotes *string             `json:"carrierNotes,omitempty"`
	ExternalID   *string             `json:"externalId,omitempty"`
	Destinations []DestinationUpdate `json:"destinations,omitempty"`
	Goods        []GoodsUpdate       `json:"goods,omitempty"`
}

// Validate checks the update before it is sent.
func (u CarrierOrderUpdate) Validate() error {
	if u.ExternalID != nil && len(*u.ExternalID) > 50 {
		return NewError(KindValidation, 0, "externalId must be at most 50 characters")
	}
	return nil
}

// Ptr returns a pointer to v, for filling update fields.
func Ptr[T any](v T) *T {
	return &v
}
