package easytrans

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Response models for the REST endpoint. Every top-level entity carries the
// REST resource identity (Type, ID) which is a different identifier space
// from the domain numbers (OrderNo, CustomerNo, ...) used by the import
// endpoint and in REST paths.

// EntityID is the opaque REST resource id. It is never a domain number.
type EntityID string

// UnmarshalJSON accepts the id as a JSON string or number.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	var s LooseString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*id = EntityID(s)
	return nil
}

// Resource is the identity shared by all REST entities.
type Resource struct {
	Type      string   `json:"type,omitempty"`
	ID        EntityID `json:"id"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// RestAddress is a postal address.
type RestAddress struct {
	Address  string `json:"address"`
	HouseNo  string `json:"houseno"`
	Address2 string `json:"address2"`
	Postcode string `json:"postcode"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// RestMailingAddress is a postal address with an attention line.
type RestMailingAddress struct {
	RestAddress
	Attn string `json:"attn"`
}

// RestLocation is a GPS position.
type RestLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// RestDestination is a pickup or delivery stop of an order.
type RestDestination struct {
	AddressID         *int          `json:"addressId"`
	StopNo            *int          `json:"stopNo"`
	TaskType          TaskType      `json:"taskType"`
	Company           string        `json:"company"`
	Contact           string        `json:"contact"`
	Address           string        `json:"address"`
	HouseNo           string        `json:"houseno"`
	Address2          string        `json:"address2"`
	Postcode          string        `json:"postcode"`
	City              string        `json:"city"`
	Country           string        `json:"country"`
	Location          *RestLocation `json:"location"`
	Phone             string        `json:"phone"`
	Notes             string        `json:"notes"`
	CustomerReference string        `json:"customerReference"`
	WaybillNo         string        `json:"waybillNo"`
	Date              string        `json:"date"`
	FromTime          string        `json:"fromTime"`
	ToTime            string        `json:"toTime"`
	ETA               string        `json:"eta"`
	DeliveryDate      string        `json:"deliveryDate"`
	DeliveryTime      string        `json:"deliveryTime"`
	DepartureTime     string        `json:"departureTime"`
	DeliveryName      string        `json:"deliveryName"`
	// SignatureURL is empty when the backend reports no signature.
	SignatureURL LooseString `json:"signatureUrl"`
	Photos       []string    `json:"photos"`
	Documents    []string    `json:"documents"`
	CarrierNotes string      `json:"carrierNotes"`
}

// RestGoodsLine is a line of goods of an order.
type RestGoodsLine struct {
	PackageID           *int     `json:"packageId"`
	PackageNo           *int     `json:"packageNo"`
	PickupDestination   *int     `json:"pickupDestination"`
	DeliveryDestination *int     `json:"deliveryDestination"`
	Amount              int      `json:"amount"`
	PackageTypeNo       *int     `json:"packageTypeNo"`
	PackageTypeName     string   `json:"packageTypeName"`
	Weight              *float64 `json:"weight"`
	Length              *float64 `json:"length"`
	Width               *float64 `json:"width"`
	Height              *float64 `json:"height"`
	Description         string   `json:"description"`
}

// RestRate is a sales or purchase rate line.
type RestRate struct {
	RateNo          int             `json:"rateNo"`
	Description     string          `json:"description"`
	RatePerUnit     decimal.Decimal `json:"ratePerUnit"`
	SubTotal        decimal.Decimal `json:"subTotal"`
	IsMinimumAmount bool            `json:"isMinimumAmount"`
	IsPercentage    bool            `json:"isPercentage"`
}

// RestTrackHistoryEntry is one status event of an order.
type RestTrackHistoryEntry struct {
	TrackID  *int   `json:"trackId"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// RestOrderAttributes holds the order data. Fields only visible to branch
// accounts are nil for customer accounts.
type RestOrderAttributes struct {
	OrderNo                 int                     `json:"orderNo"`
	Date                    string                  `json:"date"`
	Time                    string                  `json:"time"`
	Status                  string                  `json:"status"`
	SubstatusNo             *int                    `json:"substatusNo"`
	SubstatusName           string                  `json:"substatusName"`
	Collected               bool                    `json:"collected"`
	ProductNo               *int                    `json:"productNo"`
	ProductName             string                  `json:"productName"`
	CustomerNo              int                     `json:"customerNo"`
	CustomerUserID          *int                    `json:"customerUserId"`
	CarrierNo               *int                    `json:"carrierNo"`
	CarrierUserID           *int                    `json:"carrierUserId"`
	BranchNo                int                     `json:"branchNo"`
	VehicleTypeNo           *int                    `json:"vehicleTypeNo"`
	VehicleTypeName         string                  `json:"vehicleTypeName"`
	FleetNo                 *int                    `json:"fleetNo"`
	UserID                  *int                    `json:"userId"`
	WaybillNotes            string                  `json:"waybillNotes"`
	InvoiceNotes            string                  `json:"invoiceNotes"`
	PurchaseInvoiceNotes    *string                 `json:"purchaseInvoiceNotes"`
	InternalNotes           *string                 `json:"internalNotes"`
	CarrierNotes            *string                 `json:"carrierNotes"`
	RecipientEmail          string                  `json:"recipientEmail"`
	Distance                *int                    `json:"distance"`
	OrderPrice              decimal.NullDecimal     `json:"orderPrice"`
	OrderPurchasePrice      decimal.NullDecimal     `json:"orderPurchasePrice"`
	PrepaidAmount           decimal.NullDecimal     `json:"prepaidAmount"`
	ReadyForPurchaseInvoice *bool                   `json:"readyForPurchaseInvoice"`
	UsernameCreated         *string                 `json:"usernameCreated"`
	UsernameAssigned        *string                 `json:"usernameAssigned"`
	InvoiceID               int                     `json:"invoiceId"`
	TrackingID              string                  `json:"trackingId"`
	ExternalID              string                  `json:"externalId"`
	IsDeleted               *bool                   `json:"isDeleted"`
	Destinations            []RestDestination       `json:"destinations"`
	Goods                   []RestGoodsLine         `json:"goods"`
	Customer                *RestCustomer           `json:"-"`
	Carrier                 *RestCarrier            `json:"-"`
	SalesRates              []RestRate              `json:"salesRates"`
	PurchaseRates           []RestRate              `json:"purchaseRates"`
	TrackHistory            []RestTrackHistoryEntry `json:"trackHistory"`
}

// RestOrder is a transport order as seen by the REST endpoint.
type RestOrder struct {
	Resource
	Attributes RestOrderAttributes `json:"attributes"`
}

// ParseRestOrder decodes a single order resource.
func ParseRestOrder(data []byte) (RestOrder, error) {
	var o RestOrder
	fields, err := decodeResource("order", data, &o.Resource)
	if err != nil {
		return o, err
	}
	if err := requireFields("order", fields, "attributes"); err != nil {
		return o, err
	}
	attrs, err := decodeObject("order attributes", fields["attributes"])
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(fields["attributes"], &o.Attributes); err != nil {
		return o, NewError(KindValidation, 0, "invalid order attributes").WithCause(err)
	}
	if raw := attrs["customer"]; !isNull(raw) {
		c, err := parseRestCustomer(raw, false)
		if err != nil {
			return o, err
		}
		o.Attributes.Customer = &c
	}
	if raw := attrs["carrier"]; !isNull(raw) {
		c, err := parseRestCarrier(raw, false)
		if err != nil {
			return o, err
		}
		o.Attributes.Carrier = &c
	}
	return o, nil
}

// RestCustomerContact is a contact person of a customer.
type RestCustomerContact struct {
	UserID              *int       `json:"userId"`
	ContactNo           *int       `json:"contactNo"`
	Salutation          Salutation `json:"salutation"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone"`
	Mobile              string     `json:"mobile"`
	Email               string     `json:"email"`
	UseEmailForInvoice  bool       `json:"useEmailForInvoice"`
	UseEmailForReminder bool       `json:"useEmailForReminder"`
	Notes               string     `json:"notes"`
	Username            string     `json:"username"`
}

// RestCustomer is a customer record. Branch accounts only, or embedded in
// orders and invoices on request.
type RestCustomer struct {
	Resource
	CustomerNo              int                   `json:"customerNo"`
	CompanyName             string                `json:"companyName"`
	BusinessAddress         *RestAddress          `json:"businessAddress"`
	MailingAddress          *RestMailingAddress   `json:"mailingAddress"`
	Website                 string                `json:"website"`
	DebtorNo                string                `json:"debtorNo"`
	PaymentReference        string                `json:"paymentReference"`
	PaymentPeriod           int                   `json:"paymentPeriod"`
	PaymentPeriodEndOfMonth bool                  `json:"paymentPeriodEndOfMonth"`
	IBAN                    string                `json:"ibanNo"`
	BIC                     string                `json:"bicCode"`
	BankNo                  string                `json:"bankNo"`
	UKSortCode              string                `json:"ukSortCode"`
	VATNo                   string                `json:"vatNo"`
	VatLiable               bool                  `json:"vatLiable"`
	VatLiableCode           *int                  `json:"vatLiableCode"`
	ChamberOfCommerceNo     string                `json:"chamberOfCommerceNo"`
	EORINo                  string                `json:"eoriNo"`
	Language                string                `json:"language"`
	Notes                   string                `json:"notes"`
	CRMNotes                string                `json:"crmNotes"`
	InvoiceSurcharge        *float64              `json:"invoiceSurcharge"`
	Active                  bool                  `json:"active"`
	IsDeleted               *bool                 `json:"isDeleted"`
	Contacts                []RestCustomerContact `json:"contacts"`
	ExternalID              string                `json:"externalId"`
}

// ParseRestCustomer decodes a single customer resource.
func ParseRestCustomer(data []byte) (RestCustomer, error) {
	return parseRestCustomer(data, true)
}

func parseRestCustomer(data []byte, top bool) (RestCustomer, error) {
	c := RestCustomer{VatLiable: true, Active: true}
	attrs, err := decodeFlexible("customer", data, &c.Resource, top)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(attrs, &c); err != nil {
		return c, NewError(KindValidation, 0, "invalid customer").WithCause(err)
	}
	return c, nil
}

// RestCarrierContact is a contact person of a carrier.
type RestCarrierContact struct {
	UserID   *int   `json:"userId"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
	Username string `json:"username"`
}

// RestCarrier is a carrier record. Branch accounts only, or embedded in
// orders on request.
type RestCarrier struct {
	Resource
	CarrierNo               int                  `json:"carrierNo"`
	Name                    string               `json:"name"`
	BusinessAddress         *RestAddress         `json:"businessAddress"`
	MailingAddress          *RestMailingAddress  `json:"mailingAddress"`
	Phone                   string               `json:"phone"`
	Mobile                  string               `json:"mobile"`
	Email                   string               `json:"email"`
	EmailPurchaseInvoice    string               `json:"emailPurchaseInvoice"`
	Website                 string               `json:"website"`
	Notes                   string               `json:"notes"`
	CreditorNo              string               `json:"creditorNo"`
	PaymentPeriod           int                  `json:"paymentPeriod"`
	PaymentPeriodEndOfMonth bool                 `json:"paymentPeriodEndOfMonth"`
	IBAN                    string               `json:"ibanNo"`
	BIC                     string               `json:"bicCode"`
	BankNo                  string               `json:"bankNo"`
	UKSortCode              string               `json:"ukSortCode"`
	VATNo                   string               `json:"vatNo"`
	VatLiable               bool                 `json:"vatLiable"`
	VatLiableCode           *int                 `json:"vatLiableCode"`
	ChamberOfCommerceNo     string               `json:"chamberOfCommerceNo"`
	LicenseNo               string               `json:"licenseNo"`
	CarrierAttributes       []string             `json:"carrierAttributes"`
	Language                string               `json:"language"`
	Active                  bool                 `json:"active"`
	IsDeleted               *bool                `json:"isDeleted"`
	Contacts                []RestCarrierContact `json:"contacts"`
	ExternalID              string               `json:"externalId"`
}

// ParseRestCarrier decodes a single carrier resource.
func ParseRestCarrier(data []byte) (RestCarrier, error) {
	return parseRestCarrier(data, true)
}

func parseRestCarrier(data []byte, top bool) (RestCarrier, error) {
	c := RestCarrier{VatLiable: true, Active: true}
	attrs, err := decodeFlexible("carrier", data, &c.Resource, top)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(attrs, &c); err != nil {
		return c, NewError(KindValidation, 0, "invalid carrier").WithCause(err)
	}
	return c, nil
}

// RestProduct is a product (service level) reference entity.
type RestProduct struct {
	Resource
	ProductNo int    `json:"productNo,omitempty"`
	Name      string `json:"name,omitempty"`
	IsDeleted *bool  `json:"isDeleted,omitempty"`
}

// ParseRestProduct decodes a single product resource.
func ParseRestProduct(data []byte) (RestProduct, error) {
	var a struct {
		No        int    `json:"productNo"`
		Name      string `json:"name"`
		AltName   string `json:"productName"`
		IsDeleted *bool  `json:"isDeleted"`
	}
	var p RestProduct
	if err := decodeAttributes("product", data, &p.Resource, &a); err != nil {
		return p, err
	}
	p.ProductNo, p.Name, p.IsDeleted = a.No, firstNonEmpty(a.Name, a.AltName), a.IsDeleted
	return p, nil
}

// RestSubstatus is an order substatus reference entity.
type RestSubstatus struct {
	Resource
	SubstatusNo int    `json:"substatusNo,omitempty"`
	Name        string `json:"name,omitempty"`
	IsDeleted   *bool  `json:"isDeleted,omitempty"`
}

// ParseRestSubstatus decodes a single substatus resource.
func ParseRestSubstatus(data []byte) (RestSubstatus, error) {
	var a struct {
		No        int    `json:"substatusNo"`
		Name      string `json:"name"`
		AltName   string `json:"substatusName"`
		IsDeleted *bool  `json:"isDeleted"`
	}
	var s RestSubstatus
	if err := decodeAttributes("substatus", data, &s.Resource, &a); err != nil {
		return s, err
	}
	s.SubstatusNo, s.Name, s.IsDeleted = a.No, firstNonEmpty(a.Name, a.AltName), a.IsDeleted
	return s, nil
}

// RestPackageType is a package type, also used as a rate type.
type RestPackageType struct {
	Resource
	PackageTypeNo int    `json:"packageTypeNo,omitempty"`
	Name          string `json:"name,omitempty"`
	IsDeleted     *bool  `json:"isDeleted,omitempty"`
}

// ParseRestPackageType decodes a single package type resource.
func ParseRestPackageType(data []byte) (RestPackageType, error) {
	var a struct {
		No        int    `json:"packageTypeNo"`
		Name      string `json:"name"`
		AltName   string `json:"packageTypeName"`
		IsDeleted *bool  `json:"isDeleted"`
	}
	var t RestPackageType
	if err := decodeAttributes("package type", data, &t.Resource, &a); err != nil {
		return t, err
	}
	t.PackageTypeNo, t.Name, t.IsDeleted = a.No, firstNonEmpty(a.Name, a.AltName), a.IsDeleted
	return t, nil
}

// RestVehicleType is a vehicle type reference entity.
type RestVehicleType struct {
	Resource
	VehicleTypeNo int    `json:"vehicleTypeNo,omitempty"`
	Name          string `json:"name,omitempty"`
	IsDeleted     *bool  `json:"isDeleted,omitempty"`
}

// ParseRestVehicleType decodes a single vehicle type resource.
func ParseRestVehicleType(data []byte) (RestVehicleType, error) {
	var a struct {
		No        int    `json:"vehicleTypeNo"`
		Name      string `json:"name"`
		AltName   string `json:"vehicleTypeName"`
		IsDeleted *bool  `json:"isDeleted"`
	}
	var t RestVehicleType
	if err := decodeAttributes("vehicle type", data, &t.Resource, &a); err != nil {
		return t, err
	}
	t.VehicleTypeNo, t.Name, t.IsDeleted = a.No, firstNonEmpty(a.Name, a.AltName), a.IsDeleted
	return t, nil
}

// RestFleetVehicle is a vehicle of the branch's own fleet.
type RestFleetVehicle struct {
	Resource
	FleetNo       int    `json:"fleetNo,omitempty"`
	Name          string `json:"name,omitempty"`
	LicensePlate  string `json:"licensePlate,omitempty"`
	VehicleTypeNo *int   `json:"vehicleTypeNo,omitempty"`
	Active        bool   `json:"active,omitempty"`
	IsDeleted     *bool  `json:"isDeleted,omitempty"`
}

// ParseRestFleetVehicle decodes a single fleet resource.
func ParseRestFleetVehicle(data []byte) (RestFleetVehicle, error) {
	a := struct {
		No            int    `json:"fleetNo"`
		Name          string `json:"name"`
		LicensePlate  string `json:"licensePlate"`
		Registration  string `json:"registration"`
		VehicleTypeNo *int   `json:"vehicleTypeNo"`
		Active        bool   `json:"active"`
		IsDeleted     *bool  `json:"isDeleted"`
	}{Active: true}
	var v RestFleetVehicle
	if err := decodeAttributes("fleet vehicle", data, &v.Resource, &a); err != nil {
		return v, err
	}
	v.FleetNo = a.No
	v.Name = a.Name
	v.LicensePlate = firstNonEmpty(a.LicensePlate, a.Registration)
	v.VehicleTypeNo = a.VehicleTypeNo
	v.Active = a.Active
	v.IsDeleted = a.IsDeleted
	return v, nil
}

// RestInvoice is a sales invoice. InvoicePDF is base64 and only present
// when requested.
type RestInvoice struct {
	Resource
	InvoiceID           int                 `json:"invoiceId,omitempty"`
	InvoiceNo           string              `json:"invoiceNo,omitempty"`
	InvoiceDate         string              `json:"invoiceDate,omitempty"`
	CustomerNo          int                 `json:"customerNo,omitempty"`
	TotalAmount         decimal.NullDecimal `json:"totalAmount,omitempty"`
	VATAmount           decimal.NullDecimal `json:"vatAmount,omitempty"`
	PaymentMethod       string              `json:"paymentMethod,omitempty"`
	OnlinePaymentStatus string              `json:"onlinePaymentStatus,omitempty"`
	DiscountPercentage  *float64            `json:"discountPercentage,omitempty"`
	SentDate            string              `json:"sentDate,omitempty"`
	Paid                *bool               `json:"paid,omitempty"`
	PaidDate            string              `json:"paidDate,omitempty"`
	Exported            *bool               `json:"exported,omitempty"`
	ExternalID          string              `json:"externalId,omitempty"`
	InvoicePDF          string              `json:"invoicePdf,omitempty"`
	Customer            *RestCustomer       `json:"customer,omitempty"`
}

// ParseRestInvoice decodes a single invoice resource.
func ParseRestInvoice(data []byte) (RestInvoice, error) {
	var a struct {
		InvoiceID           int                 `json:"invoiceId"`
		InvoiceNo           LooseString         `json:"invoiceNo"`
		InvoiceDate         string              `json:"invoiceDate"`
		CustomerNo          int                 `json:"customerNo"`
		TotalAmount         decimal.NullDecimal `json:"totalAmount"`
		AmountInclVAT       decimal.NullDecimal `json:"amountInclVat"`
		VATAmount           decimal.NullDecimal `json:"vatAmount"`
		AmountExclVAT       decimal.NullDecimal `json:"amountExclVat"`
		PaymentMethod       string              `json:"paymentMethod"`
		OnlinePaymentStatus string              `json:"onlinePaymentStatus"`
		DiscountPercentage  *float64            `json:"discountPercentage"`
		SentDate            string              `json:"sentDate"`
		Paid                *bool               `json:"paid"`
		PaidDate            string              `json:"paidDate"`
		Exported            *bool               `json:"exported"`
		ExternalID          string              `json:"externalId"`
		InvoicePDF          string              `json:"invoicePdf"`
		Customer            json.RawMessage     `json:"customer"`
	}
	var inv RestInvoice
	attrs, err := decodeFlexible("invoice", data, &inv.Resource, true)
	if err != nil {
		return inv, err
	}
	if err := json.Unmarshal(attrs, &a); err != nil {
		return inv, NewError(KindValidation, 0, "invalid invoice").WithCause(err)
	}
	inv.InvoiceID = a.InvoiceID
	inv.InvoiceNo = string(a.InvoiceNo)
	inv.InvoiceDate = a.InvoiceDate
	inv.CustomerNo = a.CustomerNo
	inv.TotalAmount = firstValid(a.TotalAmount, a.AmountInclVAT)
	inv.VATAmount = firstValid(a.VATAmount, a.AmountExclVAT)
	inv.PaymentMethod = a.PaymentMethod
	inv.OnlinePaymentStatus = a.OnlinePaymentStatus
	inv.DiscountPercentage = a.DiscountPercentage
	inv.SentDate = a.SentDate
	inv.Paid = a.Paid
	inv.PaidDate = a.PaidDate
	inv.Exported = a.Exported
	inv.ExternalID = a.ExternalID
	inv.InvoicePDF = a.InvoicePDF
	if !isNull(a.Customer) {
		c, err := parseRestCustomer(a.Customer, false)
		if err != nil {
			return inv, err
		}
		inv.Customer = &c
	}
	return inv, nil
}

// decodeResource decodes the resource identity of a top-level entity and
// returns its raw members. The id is required.
func decodeResource(what string, data []byte, res *Resource) (map[string]json.RawMessage, error) {
	fields, err := decodeObject(what, data)
	if err != nil {
		return nil, err
	}
	if err := requireFields(what, fields, "id"); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, NewError(KindValidation, 0, "invalid "+what).WithCause(err)
	}
	return fields, nil
}

// decodeAttributes decodes a reference entity whose data lives in its
// attributes member. Missing attributes decode as empty.
func decodeAttributes(what string, data []byte, res *Resource, attrs any) error {
	fields, err := decodeResource(what, data, res)
	if err != nil {
		return err
	}
	raw := fields["attributes"]
	if isNull(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, attrs); err != nil {
		return NewError(KindValidation, 0, "invalid "+what+" attributes").WithCause(err)
	}
	return nil
}

// decodeFlexible handles entities that come either wrapped in attributes
// or flat, as they are when embedded in another entity. It returns the
// object holding the entity's data.
func decodeFlexible(what string, data []byte, res *Resource, top bool) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	var err error
	if top {
		fields, err = decodeResource(what, data, res)
	} else {
		fields, err = decodeObject(what, data)
		if err == nil {
			err = json.Unmarshal(data, res)
		}
	}
	if err != nil {
		return nil, asValidation(what, err)
	}
	if raw := fields["attributes"]; !isNull(raw) && !bytes.Equal(bytes.TrimSpace(raw), []byte("{}")) {
		return raw, nil
	}
	return data, nil
}

func asValidation(what string, err error) error {
	if KindOf(err) != "" {
		return err
	}
	return NewError(KindValidation, 0, "invalid "+what).WithCause(err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstValid(values ...decimal.NullDecimal) decimal.NullDecimal {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return decimal.NullDecimal{}
}

// LooseString decodes a JSON string or number as text. Other values,
// such as false or null, decode as empty.
type LooseString string

func (f *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = LooseString(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return err
		}
		*f = LooseString(data)
	default:
		*f = ""
	}
	return nil
}
