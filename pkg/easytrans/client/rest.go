package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/restapi"
)

// REST resource paths, relative to the REST base URL.
const (
	pathOrders        = "/orders"
	pathProducts      = "/products"
	pathSubstatuses   = "/substatuses"
	pathPackageTypes  = "/packagetypes"
	pathVehicleTypes  = "/vehicletypes"
	pathCustomers     = "/customers"
	pathCarriers      = "/carriers"
	pathFleet         = "/fleet"
	pathInvoices      = "/invoices"
	pathCarrierOrders = "/carrier/orders"
)

func listPage[T any](ctx context.Context, c *Client, path string, opts easytrans.QueryOptions, parse func([]byte) (T, error)) (*easytrans.Page[T], error) {
	query, err := easytrans.BuildQuery(opts)
	if err != nil {
		return nil, err
	}
	return restapi.FetchPage(ctx, c.restAPI, path, query, parse)
}

func listAll[T any](c *Client, path string, opts easytrans.QueryOptions, parse func([]byte) (T, error)) easytrans.Iterator[T] {
	query, err := easytrans.BuildQuery(opts)
	if err != nil {
		return restapi.FailedIterator[T](err)
	}
	return restapi.NewPageIterator(c.restAPI, path, query, parse)
}

func getOne[T any](ctx context.Context, c *Client, path string, no int, opts easytrans.QueryOptions, parse func([]byte) (T, error)) (*T, error) {
	if no <= 0 {
		return nil, easytrans.NewError(easytrans.KindValidation, 0, fmt.Sprintf("%s: number must be positive, got %d", path, no))
	}
	query, err := easytrans.BuildQuery(opts)
	if err != nil {
		return nil, err
	}
	data, err := c.restAPI.Do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", path, no), query, nil)
	if err != nil {
		return nil, err
	}
	v, err := easytrans.ParseItem(data, parse)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func putOne[T any](ctx context.Context, c *Client, path string, no int, body any, parse func([]byte) (T, error)) (*T, error) {
	if no <= 0 {
		return nil, easytrans.NewError(easytrans.KindValidation, 0, fmt.Sprintf("%s: number must be positive, got %d", path, no))
	}
	data, err := c.restAPI.Do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", path, no), nil, body)
	if err != nil {
		return nil, err
	}
	v, err := easytrans.ParseItem(data, parse)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func deletedOnly(includeDeleted bool) easytrans.QueryOptions {
	if includeDeleted {
		return easytrans.QueryOptions{Includes: []easytrans.Include{easytrans.IncludeDeleted}}
	}
	return easytrans.QueryOptions{}
}

// GetOrders returns one page of orders.
func (c *Client) GetOrders(ctx context.Context, opts easytrans.OrderListOptions) (*easytrans.Page[easytrans.RestOrder], error) {
	return listPage(ctx, c, pathOrders, opts.Query(), easytrans.ParseRestOrder)
}

// IterOrders walks every page of orders matching opts.
func (c *Client) IterOrders(_ context.Context, opts easytrans.OrderListOptions) easytrans.Iterator[easytrans.RestOrder] {
	return listAll(c, pathOrders, opts.Query(), easytrans.ParseRestOrder)
}

// GetOrder returns one order.
func (c *Client) GetOrder(ctx context.Context, orderNo int, inc easytrans.OrderIncludes) (*easytrans.RestOrder, error) {
	return getOne(ctx, c, pathOrders, orderNo, easytrans.QueryOptions{Includes: inc.Includes()}, easytrans.ParseRestOrder)
}

// UpdateOrder applies a partial update and returns the updated order.
func (c *Client) UpdateOrder(ctx context.Context, orderNo int, update easytrans.OrderUpdate) (*easytrans.RestOrder, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return putOne(ctx, c, pathOrders, orderNo, update, easytrans.ParseRestOrder)
}

// GetProducts returns the products.
func (c *Client) GetProducts(ctx context.Context, opts easytrans.NameFilterOptions) (*easytrans.Page[easytrans.RestProduct], error) {
	return listPage(ctx, c, pathProducts, opts.Query("productName"), easytrans.ParseRestProduct)
}

// GetProduct returns one product.
func (c *Client) GetProduct(ctx context.Context, productNo int, includeDeleted bool) (*easytrans.RestProduct, error) {
	return getOne(ctx, c, pathProducts, productNo, deletedOnly(includeDeleted), easytrans.ParseRestProduct)
}

// GetSubstatuses returns the substatuses.
func (c *Client) GetSubstatuses(ctx context.Context, opts easytrans.NameFilterOptions) (*easytrans.Page[easytrans.RestSubstatus], error) {
	return listPage(ctx, c, pathSubstatuses, opts.Query("substatusName"), easytrans.ParseRestSubstatus)
}

// GetSubstatus returns one substatus.
func (c *Client) GetSubstatus(ctx context.Context, substatusNo int, includeDeleted bool) (*easytrans.RestSubstatus, error) {
	return getOne(ctx, c, pathSubstatuses, substatusNo, deletedOnly(includeDeleted), easytrans.ParseRestSubstatus)
}

// GetPackageTypes returns the package types.
func (c *Client) GetPackageTypes(ctx context.Context, opts easytrans.NameFilterOptions) (*easytrans.Page[easytrans.RestPackageType], error) {
	return listPage(ctx, c, pathPackageTypes, opts.Query("packageTypeName"), easytrans.ParseRestPackageType)
}

// GetPackageType returns one package type.
func (c *Client) GetPackageType(ctx context.Context, packageTypeNo int, includeDeleted bool) (*easytrans.RestPackageType, error) {
	return getOne(ctx, c, pathPackageTypes, packageTypeNo, deletedOnly(includeDeleted), easytrans.ParseRestPackageType)
}

// GetVehicleTypes returns the vehicle types.
func (c *Client) GetVehicleTypes(ctx context.Context, opts easytrans.NameFilterOptions) (*easytrans.Page[easytrans.RestVehicleType], error) {
	return listPage(ctx, c, pathVehicleTypes, opts.Query("vehicleTypeName"), easytrans.ParseRestVehicleType)
}

// GetVehicleType returns one vehicle type.
func (c *Client) GetVehicleType(ctx context.Context, vehicleTypeNo int, includeDeleted bool) (*easytrans.RestVehicleType, error) {
	return getOne(ctx, c, pathVehicleTypes, vehicleTypeNo, deletedOnly(includeDeleted), easytrans.ParseRestVehicleType)
}

// GetCustomers returns one page of customers. Branch accounts only.
func (c *Client) GetCustomers(ctx context.Context, opts easytrans.ListOptions) (*easytrans.Page[easytrans.RestCustomer], error) {
	return listPage(ctx, c, pathCustomers, opts.Query(), easytrans.ParseRestCustomer)
}

// IterCustomers walks every page of customers matching opts.
func (c *Client) IterCustomers(_ context.Context, opts easytrans.ListOptions) easytrans.Iterator[easytrans.RestCustomer] {
	return listAll(c, pathCustomers, opts.Query(), easytrans.ParseRestCustomer)
}

// GetCustomer returns one customer.
func (c *Client) GetCustomer(ctx context.Context, customerNo int, includeDeleted bool) (*easytrans.RestCustomer, error) {
	return getOne(ctx, c, pathCustomers, customerNo, deletedOnly(includeDeleted), easytrans.ParseRestCustomer)
}

// GetCarriers returns one page of carriers. Branch accounts only.
func (c *Client) GetCarriers(ctx context.Context, opts easytrans.ListOptions) (*easytrans.Page[easytrans.RestCarrier], error) {
	return listPage(ctx, c, pathCarriers, opts.Query(), easytrans.ParseRestCarrier)
}

// IterCarriers walks every page of carriers matching opts.
func (c *Client) IterCarriers(_ context.Context, opts easytrans.ListOptions) easytrans.Iterator[easytrans.RestCarrier] {
	return listAll(c, pathCarriers, opts.Query(), easytrans.ParseRestCarrier)
}

// GetCarrier returns one carrier.
func (c *Client) GetCarrier(ctx context.Context, carrierNo int, includeDeleted bool) (*easytrans.RestCarrier, error) {
	return getOne(ctx, c, pathCarriers, carrierNo, deletedOnly(includeDeleted), easytrans.ParseRestCarrier)
}

// GetFleet returns the fleet vehicles. Branch accounts only.
func (c *Client) GetFleet(ctx context.Context, opts easytrans.FleetListOptions) (*easytrans.Page[easytrans.RestFleetVehicle], error) {
	return listPage(ctx, c, pathFleet, opts.Query(), easytrans.ParseRestFleetVehicle)
}

// GetFleetVehicle returns one fleet vehicle.
func (c *Client) GetFleetVehicle(ctx context.Context, fleetNo int, includeDeleted bool) (*easytrans.RestFleetVehicle, error) {
	return getOne(ctx, c, pathFleet, fleetNo, deletedOnly(includeDeleted), easytrans.ParseRestFleetVehicle)
}

// GetInvoices returns one page of invoices.
func (c *Client) GetInvoices(ctx context.Context, opts easytrans.InvoiceListOptions) (*easytrans.Page[easytrans.RestInvoice], error) {
	return listPage(ctx, c, pathInvoices, opts.Query(), easytrans.ParseRestInvoice)
}

// IterInvoices walks every page of invoices matching opts.
func (c *Client) IterInvoices(_ context.Context, opts easytrans.InvoiceListOptions) easytrans.Iterator[easytrans.RestInvoice] {
	return listAll(c, pathInvoices, opts.Query(), easytrans.ParseRestInvoice)
}

// GetInvoice returns one invoice.
func (c *Client) GetInvoice(ctx context.Context, invoiceID int, inc easytrans.InvoiceIncludes) (*easytrans.RestInvoice, error) {
	return getOne(ctx, c, pathInvoices, invoiceID, easytrans.QueryOptions{Includes: inc.Includes()}, easytrans.ParseRestInvoice)
}

// GetCarrierOrders returns one page of the orders assigned to the
// account. Carrier accounts only.
func (c *Client) GetCarrierOrders(ctx context.Context, opts easytrans.OrderListOptions) (*easytrans.Page[easytrans.RestOrder], error) {
	return listPage(ctx, c, pathCarrierOrders, opts.Query(), easytrans.ParseRestOrder)
}

// IterCarrierOrders walks every page of assigned orders matching opts.
func (c *Client) IterCarrierOrders(_ context.Context, opts easytrans.OrderListOptions) easytrans.Iterator[easytrans.RestOrder] {
	return listAll(c, pathCarrierOrders, opts.Query(), easytrans.ParseRestOrder)
}

// GetCarrierOrder returns one assigned order.
func (c *Client) GetCarrierOrder(ctx context.Context, orderNo int, inc easytrans.OrderIncludes) (*easytrans.RestOrder, error) {
	return getOne(ctx, c, pathCarrierOrders, orderNo, easytrans.QueryOptions{Includes: inc.Includes()}, easytrans.ParseRestOrder)
}

// UpdateCarrierOrder applies a carrier's partial update.
func (c *Client) UpdateCarrierOrder(ctx context.Context, orderNo int, update easytrans.CarrierOrderUpdate) (*easytrans.RestOrder, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return putOne(ctx, c, pathCarrierOrders, orderNo, update, easytrans.ParseRestOrder)
}
