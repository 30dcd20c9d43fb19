package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/mock"
)

func order(customerNo int) easytrans.Order {
	return easytrans.Order{
		ProductNo:  1,
		CustomerNo: easytrans.Ptr(customerNo),
		Destinations: []easytrans.Destination{
			{CompanyName: "Warehouse Deventer", City: "Deventer", CollectDeliver: easytrans.Pickup},
			{CompanyName: "Shop Amsterdam", City: "Amsterdam", CollectDeliver: easytrans.Delivery},
		},
		Packages: []easytrans.Package{{Amount: 2, Weight: 10, Description: "Pallet"}},
	}
}

func seed(b *mock.Backend) {
	b.AddReferenceData(easytrans.ReferenceData{
		Products:     []easytrans.RestProduct{{ProductNo: 1, Name: "Same day"}, {ProductNo: 2, Name: "Next day"}},
		Substatuses:  []easytrans.RestSubstatus{{SubstatusNo: 1, Name: "Waiting for goods"}},
		PackageTypes: []easytrans.RestPackageType{{PackageTypeNo: 1, Name: "Pallet"}},
		VehicleTypes: []easytrans.RestVehicleType{{VehicleTypeNo: 1, Name: "Van"}, {VehicleTypeNo: 2, Name: "Truck", IsDeleted: easytrans.Ptr(true)}},
	})
	b.AddCustomers(
		easytrans.RestCustomer{CustomerNo: 1001, CompanyName: "Acme", Active: true},
		easytrans.RestCustomer{CustomerNo: 1002, CompanyName: "Globex", Active: true},
	)
	b.AddCarriers(easytrans.RestCarrier{CarrierNo: 7, Name: "Fast Freight", Active: true})
}

func TestImportThenRead(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New(easytrans.ModeEffect)
	seed(b)

	result, err := c.ImportOrders(ctx, []easytrans.Order{order(1001), order(1002)})
	require.NoError(t, err)
	assert.Equal(t, easytrans.ModeEffect, result.Mode)
	assert.Equal(t, []int{35558, 35559}, result.NewOrderNos)
	assert.Equal(t, 4, result.TotalOrderDestinations)
	assert.Equal(t, "ET35558", result.OrderTrackTrace[35558].LocalTrackingNo)

	got, err := c.GetOrder(ctx, 35558, easytrans.OrderIncludes{Customer: true, TrackHistory: true})
	require.NoError(t, err)
	assert.Equal(t, easytrans.EntityID("35558"), got.ID)
	assert.Equal(t, "submit", got.Attributes.Status)
	require.Len(t, got.Attributes.Destinations, 2)
	assert.Equal(t, easytrans.TaskPickup, got.Attributes.Destinations[0].TaskType)
	require.NotNil(t, got.Attributes.Customer)
	assert.Equal(t, "Acme", got.Attributes.Customer.CompanyName)
	assert.Len(t, got.Attributes.TrackHistory, 1)

	plain, err := c.GetOrder(ctx, 35558, easytrans.OrderIncludes{})
	require.NoError(t, err)
	assert.Nil(t, plain.Attributes.Customer)
	assert.Empty(t, plain.Attributes.TrackHistory)
}

func TestImportTestModeStoresNothing(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New("")
	seed(b)

	result, err := c.ImportOrders(ctx, []easytrans.Order{order(1001)})
	require.NoError(t, err)
	assert.Equal(t, easytrans.ModeTest, result.Mode)
	assert.Empty(t, result.NewOrderNos)

	page, err := c.GetOrders(ctx, easytrans.OrderListOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Len(t, b.Imports(), 1)
}

func TestImportRejectsUnknownNumbers(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New(easytrans.ModeEffect)
	seed(b)

	bad := order(1001)
	bad.ProductNo = 99
	_, err := c.ImportOrders(ctx, []easytrans.Order{bad})
	assert.True(t, errors.Is(err, easytrans.ErrOrder))
	assert.Contains(t, err.Error(), "Unknown productno 99")

	_, err = c.ImportOrders(ctx, []easytrans.Order{order(4242)})
	assert.True(t, errors.Is(err, easytrans.ErrOrder))
}

func TestImportCustomers(t *testing.T) {
	ctx := context.Background()
	c, _ := mock.New(easytrans.ModeEffect)

	result, err := c.ImportCustomers(ctx, []easytrans.Customer{{
		CompanyName: "Initech",
		City:        "Utrecht",
		Contacts:    []easytrans.CustomerContact{{Name: "Bill"}},
	}})
	require.NoError(t, err)
	require.Equal(t, []int{1001}, result.NewCustomerNos)
	assert.Equal(t, []int{100101}, result.NewUserIDs[1001])

	got, err := c.GetCustomer(ctx, 1001, false)
	require.NoError(t, err)
	assert.Equal(t, "Initech", got.CompanyName)
	assert.Equal(t, "Utrecht", got.BusinessAddress.City)
}

func TestListFiltersSortsAndPages(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New(easytrans.ModeEffect)
	b.SetPageSize(2)
	for i := 1; i <= 5; i++ {
		b.AddOrders(easytrans.RestOrder{Attributes: easytrans.RestOrderAttributes{
			OrderNo: 100 + i,
			Date:    "2024-01-0" + string(rune('0'+i)),
			Status:  map[bool]string{true: "finished", false: "planned"}[i%2 == 0],
		}})
	}

	page, err := c.GetOrders(ctx, easytrans.OrderListOptions{Filter: easytrans.Filter{"status": "planned"}, Sort: "-orderNo"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 105, page.Items[0].Attributes.OrderNo)
	assert.Equal(t, 103, page.Items[1].Attributes.OrderNo)
	assert.Equal(t, 3, page.Meta.Total)
	assert.True(t, page.HasNext())

	var nos []int
	it := c.IterOrders(ctx, easytrans.OrderListOptions{Filter: easytrans.Filter{"date": easytrans.Ops{easytrans.OpGTE: "2024-01-02"}}})
	for it.Next(ctx) {
		nos = append(nos, it.Item().Attributes.OrderNo)
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []int{102, 103, 104, 105}, nos)
}

func TestReferenceData(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New("")
	seed(b)

	ref, err := c.ReferenceData(ctx)
	require.NoError(t, err)
	assert.Len(t, ref.Products, 2)
	assert.Equal(t, "Same day", ref.Products[0].Name)
	assert.Len(t, ref.VehicleTypes, 1)

	page, err := c.GetVehicleTypes(ctx, easytrans.NameFilterOptions{Name: "TRU", IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].VehicleTypeNo)
}

func TestDeletedRecordsNeedInclude(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New("")
	seed(b)

	_, err := c.GetVehicleType(ctx, 2, false)
	assert.True(t, errors.Is(err, easytrans.ErrNotFound))

	vt, err := c.GetVehicleType(ctx, 2, true)
	require.NoError(t, err)
	assert.Equal(t, "Truck", vt.Name)
}

func TestUpdateOrder(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New(easytrans.ModeEffect)
	seed(b)
	_, err := c.ImportOrders(ctx, []easytrans.Order{order(1001)})
	require.NoError(t, err)

	got, err := c.UpdateOrder(ctx, 35558, easytrans.OrderUpdate{
		CarrierNo:    easytrans.Ptr(7),
		WaybillNotes: easytrans.Ptr("Ring twice"),
		Destinations: []easytrans.DestinationUpdate{{StopNo: easytrans.Ptr(2), City: easytrans.Ptr("Haarlem")}},
	})
	require.NoError(t, err)
	require.NotNil(t, got.Attributes.CarrierNo)
	assert.Equal(t, 7, *got.Attributes.CarrierNo)
	assert.Equal(t, "Ring twice", got.Attributes.WaybillNotes)
	assert.Equal(t, "Haarlem", got.Attributes.Destinations[1].City)

	got, err = c.UpdateOrder(ctx, 35558, easytrans.OrderUpdate{CarrierNo: easytrans.Ptr(0)})
	require.NoError(t, err)
	assert.Nil(t, got.Attributes.CarrierNo)

	_, err = c.UpdateOrder(ctx, 35558, easytrans.OrderUpdate{CarrierNo: easytrans.Ptr(8)})
	var apiErr *easytrans.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, easytrans.KindValidation, apiErr.Kind)
	assert.Contains(t, apiErr.Details, "carrierNo")
}

func TestCarrierOrders(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New("")
	b.AddCarrierOrders(easytrans.RestOrder{Attributes: easytrans.RestOrderAttributes{
		OrderNo: 500,
		Goods:   []easytrans.RestGoodsLine{{PackageNo: easytrans.Ptr(1), Amount: 1}},
	}})

	got, err := c.UpdateCarrierOrder(ctx, 500, easytrans.CarrierOrderUpdate{
		CarrierNotes: easytrans.Ptr("Delivered at back door"),
		Goods:        []easytrans.GoodsUpdate{{PackageNo: easytrans.Ptr(1), Amount: easytrans.Ptr(3)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Delivered at back door", *got.Attributes.CarrierNotes)
	assert.Equal(t, 3, got.Attributes.Goods[0].Amount)

	_, err = c.GetOrder(ctx, 500, easytrans.OrderIncludes{})
	assert.True(t, errors.Is(err, easytrans.ErrNotFound))
}

func TestOnRequestInjectsFailures(t *testing.T) {
	ctx := context.Background()
	c, b := mock.New("")
	seed(b)
	limited := easytrans.NewError(easytrans.KindRateLimit, 429, "max 60 requests per minute").WithStatusCode(429)
	b.OnRequest = func(method, path string) error {
		if path == mock.Substatuses {
			return limited
		}
		return nil
	}

	_, err := c.ReferenceData(ctx)
	assert.Same(t, limited, err)
	assert.True(t, easytrans.IsRateLimited(err))
}
