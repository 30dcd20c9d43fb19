package easytrans_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

func testOrder() easytrans.Order {
	return easytrans.Order{
		ProductNo: 2,
		Date:      "2024-06-03",
		Status:    easytrans.OrderSubmit,
		Remark:    "Handle with care",
		Destinations: []easytrans.Destination{
			{
				CompanyName:    "Warehouse Deventer",
				Address:        "Keulenstraat",
				HouseNo:        "1",
				PostalCode:     "7418 ET",
				City:           "Deventer",
				Country:        "NL",
				CollectDeliver: easytrans.Pickup,
			},
			{
				CompanyName:       "Shop Amsterdam",
				Address:           "Damrak",
				HouseNo:           "70",
				PostalCode:        "1012 LM",
				City:              "Amsterdam",
				Country:           "NL",
				CollectDeliver:    easytrans.Delivery,
				CustomerReference: "PO-1234",
				Documents: []easytrans.Document{
					{Type: easytrans.DocumentPDF, Base64Content: "JVBERi0=", Name: "packing-list.pdf"},
				},
			},
		},
		Packages: []easytrans.Package{
			{Amount: 2, Weight: 12.5, Length: 60, Width: 40, Height: 40, Description: "Boxes"},
		},
	}
}

func TestOrder_Validate(t *testing.T) {
	o := testOrder()
	require.NoError(t, o.Validate())
}

func TestOrder_ValidateNeedsTwoDestinations(t *testing.T) {
	o := testOrder()
	o.Destinations = o.Destinations[:1]

	err := o.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, easytrans.ErrValidation))
	assert.Contains(t, err.Error(), "order_destinations needs at least 2 entries")
}

func TestOrder_ValidateNeedsProduct(t *testing.T) {
	o := testOrder()
	o.ProductNo = 0

	err := o.Validate()
	require.Error(t, err)
	assert.Equal(t, easytrans.KindValidation, easytrans.KindOf(err))
	assert.Contains(t, err.Error(), "productno is required")
}

func TestOrder_ValidateDocuments(t *testing.T) {
	o := testOrder()
	doc := easytrans.Document{Type: easytrans.DocumentPDF, Base64Content: "JVBERi0="}
	o.Destinations[1].Documents = []easytrans.Document{doc, doc, doc}

	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_destinations[1].documents allows at most 2 entries")
}

func TestOrder_RenderOmitsEmptyFields(t *testing.T) {
	o := testOrder()
	o.Status = ""

	data, err := o.Render()
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "submit", wire["status"])
	assert.Equal(t, float64(2), wire["productno"])
	assert.Equal(t, float64(0), wire["carrierno"])
	assert.Equal(t, false, wire["no_confirmation_email"])
	assert.NotContains(t, wire, "customerno")
	assert.NotContains(t, wire, "time")
	assert.NotContains(t, wire, "email_receiver")

	destinations := wire["order_destinations"].([]any)
	require.Len(t, destinations, 2)
	first := destinations[0].(map[string]any)
	assert.Equal(t, float64(0), first["collect_deliver"])
	assert.NotContains(t, first, "documents")
	assert.NotContains(t, first, "destinationno")

	packages := wire["order_packages"].([]any)
	line := packages[0].(map[string]any)
	assert.Contains(t, line, "collect_destinationno")
	assert.Nil(t, line["collect_destinationno"])
	assert.Equal(t, float64(0), line["ratetypeno"])
}

func TestOrder_RenderIsIdempotent(t *testing.T) {
	o := testOrder()

	first, err := o.Render()
	require.NoError(t, err)
	second, err := o.Render()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestOrder_RoundTrip(t *testing.T) {
	o := testOrder()

	data, err := o.Render()
	require.NoError(t, err)

	parsed, err := easytrans.ParseOrder(data)
	require.NoError(t, err)
	assert.Equal(t, o, *parsed)
}

func TestParseOrders_ReportsIndex(t *testing.T) {
	valid, err := testOrder().Render()
	require.NoError(t, err)

	data := []byte(`[` + string(valid) + `,{"productno":1,"order_destinations":[]}]`)
	_, err = easytrans.ParseOrders(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order 1:")
	assert.True(t, errors.Is(err, easytrans.ErrValidation))
}

func TestParseOrders_NotAnArray(t *testing.T) {
	_, err := easytrans.ParseOrders([]byte(`{"productno":1}`))
	require.Error(t, err)
	assert.Equal(t, easytrans.KindValidation, easytrans.KindOf(err))
}

func TestCustomer_ValidateNeedsCompanyName(t *testing.T) {
	c := easytrans.Customer{City: "Deventer"}

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company_name is required")
}

func TestCustomer_RenderAndParse(t *testing.T) {
	vat := easytrans.VatLiableYes
	c := easytrans.Customer{
		CompanyName:   "Acme B.V.",
		Address:       "Keulenstraat",
		HouseNo:       "1",
		City:          "Deventer",
		Country:       "NL",
		PaymentMethod: easytrans.PaymentDirectDebit,
		VatLiable:     &vat,
		Language:      easytrans.LanguageDutch,
		Contacts: []easytrans.CustomerContact{
			{Name: "J. Jansen", Salutation: easytrans.SalutationMr, Email: "j.jansen@example.com"},
		},
	}
	require.NoError(t, c.Validate())

	data, err := c.Render()
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "Acme B.V.", wire["company_name"])
	assert.Equal(t, float64(1), wire["vat_liable"])
	assert.Equal(t, false, wire["update_on_existing_customerno"])
	assert.NotContains(t, wire, "mail_address")

	parsed, err := easytrans.ParseCustomer(data)
	require.NoError(t, err)
	assert.Equal(t, c, *parsed)
}

func TestCustomer_VatLiableOmittedWhenUnset(t *testing.T) {
	data, err := easytrans.Customer{CompanyName: "Acme B.V."}.Render()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "vat_liable")
}
