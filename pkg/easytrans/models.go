package easytrans

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Request models for the import endpoint. The JSON tags are the wire shape:
// empty optional fields are omitted, numeric and boolean fields are always
// sent, and package lines are sent in full.

// Document is a file attached to a destination, at most two per destination.
type Document struct {
	Type          DocumentType `json:"type" validate:"oneof=pdf xls xlsx doc docx"`
	Base64Content string       `json:"base64_content" validate:"required,base64"`
	Name          string       `json:"name,omitempty"`
}

// Destination is a pickup or delivery address of an order.
type Destination struct {
	CompanyName       string         `json:"company_name,omitempty"`
	Contact           string         `json:"contact,omitempty"`
	Address           string         `json:"address,omitempty"`
	HouseNo           string         `json:"houseno,omitempty"`
	Addition          string         `json:"addition,omitempty"`
	Address2          string         `json:"address2,omitempty"`
	PostalCode        string         `json:"postal_code,omitempty"`
	City              string         `json:"city,omitempty"`
	Country           string         `json:"country,omitempty"`
	Telephone         string         `json:"telephone,omitempty"`
	DestinationNo     *int           `json:"destinationno,omitempty"`
	CollectDeliver    CollectDeliver `json:"collect_deliver" validate:"min=0,max=2"`
	Remark            string         `json:"destination_remark,omitempty"`
	CustomerReference string         `json:"customer_reference,omitempty"`
	WaybillNo         string         `json:"waybillno,omitempty"`
	DeliveryDate      string         `json:"delivery_date,omitempty"`
	DeliveryTime      string         `json:"delivery_time,omitempty"`
	DeliveryTimeFrom  string         `json:"delivery_time_from,omitempty"`
	Documents         []Document     `json:"documents,omitempty" validate:"max=2,dive"`
}

// Package is a line of goods of the same type, weight and dimensions.
// Weight is per package, dimensions are in centimetres.
type Package struct {
	Amount               float64 `json:"amount" validate:"gte=0"`
	Weight               float64 `json:"weight" validate:"gte=0"`
	Length               float64 `json:"length" validate:"gte=0"`
	Width                float64 `json:"width" validate:"gte=0"`
	Height               float64 `json:"height" validate:"gte=0"`
	Description          string  `json:"description"`
	CollectDestinationNo *int    `json:"collect_destinationno"`
	DeliverDestinationNo *int    `json:"deliver_destinationno"`
	RateTypeNo           int     `json:"ratetypeno"`
}

// Order is a transport order to import. It needs a product and at least
// a pickup and a delivery destination.
type Order struct {
	ProductNo                int           `json:"productno" validate:"required"`
	Date                     string        `json:"date,omitempty"`
	Time                     string        `json:"time,omitempty"`
	Status                   OrderStatus   `json:"status,omitempty" validate:"omitempty,oneof=save submit quote"`
	CustomerNo               *int          `json:"customerno,omitempty"`
	CarrierNo                int           `json:"carrierno"`
	VehicleNo                int           `json:"vehicleno"`
	FleetNo                  *int          `json:"fleetno,omitempty"`
	SubstatusNo              *int          `json:"substatusno,omitempty"`
	Remark                   string        `json:"remark,omitempty"`
	RemarkInvoice            string        `json:"remark_invoice,omitempty"`
	RemarkInternal           string        `json:"remark_internal,omitempty"`
	RemarkPurchase           string        `json:"remark_purchase,omitempty"`
	NoConfirmationEmail      bool          `json:"no_confirmation_email"`
	EmailReceiver            string        `json:"email_receiver,omitempty" validate:"omitempty,email"`
	Price                    float64       `json:"price"`
	PriceDescription         string        `json:"price_description,omitempty"`
	PurchasePrice            float64       `json:"purchase_price"`
	PurchasePriceDescription string        `json:"purchase_price_description,omitempty"`
	CarrierService           string        `json:"carrier_service,omitempty"`
	CarrierOptions           string        `json:"carrier_options,omitempty"`
	ExternalID               string        `json:"external_id,omitempty" validate:"max=50"`
	Destinations             []Destination `json:"order_destinations" validate:"min=2,dive"`
	Packages                 []Package     `json:"order_packages,omitempty" validate:"dive"`
}

// MarshalJSON renders the order, defaulting an empty status to submit.
func (o Order) MarshalJSON() ([]byte, error) {
	type wireOrder Order
	w := wireOrder(o)
	if w.Status == "" {
		w.Status = OrderSubmit
	}
	return json.Marshal(w)
}

// Render returns the order's import wire shape.
func (o Order) Render() ([]byte, error) {
	return json.Marshal(o)
}

// Validate checks the order before it is sent.
func (o *Order) Validate() error {
	return validateModel("order", o)
}

// CustomerContact is a contact person of a customer, optionally with
// portal credentials.
type CustomerContact struct {
	Name                string     `json:"contact_name,omitempty"`
	Salutation          Salutation `json:"salutation" validate:"min=0,max=3"`
	Telephone           string     `json:"telephone,omitempty"`
	Mobile              string     `json:"mobile,omitempty"`
	Email               string     `json:"email,omitempty" validate:"omitempty,email"`
	UseEmailForInvoice  *bool      `json:"use_email_for_invoice,omitempty"`
	UseEmailForReminder *bool      `json:"use_email_for_reminder,omitempty"`
	Remark              string     `json:"contact_remark,omitempty"`
	Username            string     `json:"username,omitempty"`
	Password            string     `json:"password,omitempty"`
	UserID              *int       `json:"userid,omitempty"`
}

// Customer is a customer to import. Only the company name is required;
// the mailing address defaults to the main address on the backend.
type Customer struct {
	CompanyName                    string            `json:"company_name" validate:"required"`
	CustomerNo                     *int              `json:"customerno,omitempty"`
	UpdateOnExistingCustomerNo     bool              `json:"update_on_existing_customerno"`
	DeleteExistingCustomerContacts bool              `json:"delete_existing_customer_contacts"`
	Attn                           string            `json:"attn,omitempty"`
	Address                        string            `json:"address,omitempty"`
	HouseNo                        string            `json:"houseno,omitempty"`
	Addition                       string            `json:"addition,omitempty"`
	Address2                       string            `json:"address2,omitempty"`
	PostalCode                     string            `json:"postal_code,omitempty"`
	City                           string            `json:"city,omitempty"`
	Country                        string            `json:"country,omitempty"`
	MailAddress                    string            `json:"mail_address,omitempty"`
	MailHouseNo                    string            `json:"mail_houseno,omitempty"`
	MailAddition                   string            `json:"mail_addition,omitempty"`
	MailAddress2                   string            `json:"mail_address2,omitempty"`
	MailPostalCode                 string            `json:"mail_postal_code,omitempty"`
	MailCity                       string            `json:"mail_city,omitempty"`
	MailCountry                    string            `json:"mail_country,omitempty"`
	DebtorNo                       string            `json:"debtorno,omitempty"`
	PaymentRef                     string            `json:"payment_ref,omitempty"`
	Website                        string            `json:"website,omitempty"`
	Remark                         string            `json:"remark,omitempty"`
	CRMNotes                       string            `json:"crm_notes,omitempty"`
	IBAN                           string            `json:"ibanno,omitempty"`
	BIC                            string            `json:"bicno,omitempty"`
	BankNo                         string            `json:"bankno,omitempty"`
	UKSortCode                     string            `json:"uk_sort_code,omitempty"`
	CoCNo                          string            `json:"cocno,omitempty"`
	VATNo                          string            `json:"vatno,omitempty"`
	EORINo                         string            `json:"eorino,omitempty"`
	PaymentMethod                  PaymentMethod     `json:"payment_method,omitempty"`
	VatLiable                      *VatLiable        `json:"vat_liable,omitempty" validate:"omitempty,min=0,max=2"`
	Language                       Language          `json:"language,omitempty" validate:"omitempty,oneof=nl en de fr"`
	ExternalID                     string            `json:"external_id,omitempty" validate:"max=50"`
	Contacts                       []CustomerContact `json:"customer_contacts,omitempty" validate:"dive"`
}

// Render returns the customer's import wire shape.
func (c Customer) Render() ([]byte, error) {
	return json.Marshal(c)
}

// Validate checks the customer before it is sent.
func (c *Customer) Validate() error {
	return validateModel("customer", c)
}

// ParseOrder reads an order from its import wire shape.
func ParseOrder(data []byte) (*Order, error) {
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, NewError(KindValidation, 0, "invalid order JSON").WithCause(err)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return &o, nil
}

// ParseOrders reads a JSON array of orders.
func ParseOrders(data []byte) ([]Order, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewError(KindValidation, 0, "invalid orders JSON").WithCause(err)
	}
	orders := make([]Order, 0, len(raw))
	for i, r := range raw {
		o, err := ParseOrder(r)
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// ParseCustomer reads a customer from its import wire shape.
func ParseCustomer(data []byte) (*Customer, error) {
	var c Customer
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, NewError(KindValidation, 0, "invalid customer JSON").WithCause(err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseCustomers reads a JSON array of customers.
func ParseCustomers(data []byte) ([]Customer, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewError(KindValidation, 0, "invalid customers JSON").WithCause(err)
	}
	customers := make([]Customer, 0, len(raw))
	for i, r := range raw {
		c, err := ParseCustomer(r)
		if err != nil {
			return nil, fmt.Errorf("customer %d: %w", i, err)
		}
		customers = append(customers, *c)
	}
	return customers, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report wire names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateModel(what string, model any) error {
	err := validate.Struct(model)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewError(KindValidation, 0, "invalid "+what).WithCause(err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return NewError(KindValidation, 0, "invalid "+what+": "+strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	// Namespace is "Order.order_destinations[0].company_name"; drop the type.
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s allows at most %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
