package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/importapi"
)

// Import errornos raised by Backend. Both are order errors on the backend.
const (
	errUnknownProduct  = 21
	errUnknownCustomer = 22
)

// Submit answers an import request. Test mode checks the payload and
// allocates nothing; effect mode stores the imported records so the REST
// side can read them back.
func (b *Backend) Submit(ctx context.Context, req *importapi.Request) (json.RawMessage, error) {
	if req == nil {
		return nil, easytrans.NewError(easytrans.KindValidation, 0, "import request is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, easytrans.NewError(easytrans.KindAPI, 0, "request cancelled").WithCause(err)
	}
	if b.OnRequest != nil {
		if err := b.OnRequest("IMPORT", string(req.Type)); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.imports = append(b.imports, *req)

	data, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, easytrans.NewError(easytrans.KindValidation, 5, "payload is not valid JSON").WithCause(err)
	}

	if req.Type == easytrans.AuthCustomerImport {
		var customers []easytrans.Customer
		if err := json.Unmarshal(data, &customers); err != nil {
			return nil, easytrans.NewError(easytrans.KindValidation, 5, "customers must be an array").WithCause(err)
		}
		return b.importCustomers(req, customers)
	}

	var orders []easytrans.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, easytrans.NewError(easytrans.KindValidation, 5, "orders must be an array").WithCause(err)
	}
	return b.importOrders(req, orders)
}

func importError(code int, description string) *easytrans.Error {
	return easytrans.NewError(easytrans.ImportErrorKind(code), code, description)
}

// known reports whether no is stored under path. An empty collection
// accepts every number, so unseeded tests are not rejected.
func (b *Backend) known(path string, no int) bool {
	if len(b.records[path]) == 0 {
		return true
	}
	return b.find(path, no, false) != nil
}

func (b *Backend) importOrders(req *importapi.Request, orders []easytrans.Order) (json.RawMessage, error) {
	destinations, packages := 0, 0
	for _, o := range orders {
		if !b.known(Products, o.ProductNo) {
			return nil, importError(errUnknownProduct, fmt.Sprintf("Unknown productno %d", o.ProductNo))
		}
		if o.CustomerNo != nil && !b.known(Customers, *o.CustomerNo) {
			return nil, importError(errUnknownCustomer, fmt.Sprintf("Unknown customerno %d", *o.CustomerNo))
		}
		destinations += len(o.Destinations)
		packages += len(o.Packages)
	}

	nos := []int{}
	trackTrace := map[string]any{}
	rates := map[string]any{}
	documents := map[string]any{}
	if req.Mode == easytrans.ModeEffect {
		for _, o := range orders {
			no := b.nextOrderNo
			b.nextOrderNo++
			nos = append(nos, no)

			stored := b.restOrder(no, o)
			b.records[Orders] = append(b.records[Orders], record{no: no, value: stored})

			trackTrace[strconv.Itoa(no)] = map[string]any{
				"local_trackingnr":      stored.Attributes.TrackingID,
				"local_tracktrace_url":  "mock://track/" + stored.Attributes.TrackingID,
				"global_trackingnr":     "",
				"global_tracktrace_url": "",
				"status":                trackStatus(o.Status),
			}
			if req.ReturnRates {
				rates[strconv.Itoa(no)] = map[string]any{
					"rates":                     []any{map[string]any{"description": "Transport", "price": o.Price}},
					"order_total_excluding_vat": o.Price,
					"order_total_including_vat": o.Price,
				}
			}
			if req.ReturnDocuments != "" {
				documents[strconv.Itoa(no)] = map[string]any{"label": "mock://label/" + strconv.Itoa(no)}
			}
		}
	}

	result := map[string]any{
		"mode":                     req.Mode,
		"total_orders":             len(orders),
		"total_order_destinations": destinations,
		"total_order_packages":     packages,
		"result_description":       fmt.Sprintf("%d orders processed (%s mode)", len(orders), req.Mode),
		"new_ordernos":             nos,
		"order_tracktrace":         trackTrace,
	}
	if req.ReturnRates {
		result["order_rates"] = rates
	}
	if req.ReturnDocuments != "" {
		result["order_documents"] = documents
	}
	return json.Marshal(result)
}

func trackStatus(s easytrans.OrderStatus) string {
	switch s {
	case easytrans.OrderQuote:
		return "quote"
	case easytrans.OrderSave:
		return "saved-weborder"
	default:
		return "accepted"
	}
}

func (b *Backend) restOrder(no int, o easytrans.Order) *easytrans.RestOrder {
	now := b.now()
	status := string(o.Status)
	if status == "" {
		status = string(easytrans.OrderSubmit)
	}
	attrs := easytrans.RestOrderAttributes{
		OrderNo:      no,
		Date:         firstSet(o.Date, now.Format("2006-01-02")),
		Time:         firstSet(o.Time, now.Format("15:04")),
		Status:       status,
		ProductNo:    easytrans.Ptr(o.ProductNo),
		SubstatusNo:  o.SubstatusNo,
		FleetNo:      o.FleetNo,
		WaybillNotes: o.Remark,
		InvoiceNotes: o.RemarkInvoice,
		TrackingID:   fmt.Sprintf("ET%d", no),
		ExternalID:   o.ExternalID,
		IsDeleted:    easytrans.Ptr(false),
	}
	if o.CustomerNo != nil {
		attrs.CustomerNo = *o.CustomerNo
	}
	if o.CarrierNo != 0 {
		attrs.CarrierNo = easytrans.Ptr(o.CarrierNo)
	}
	if o.EmailReceiver != "" {
		attrs.RecipientEmail = o.EmailReceiver
	}
	for i, d := range o.Destinations {
		attrs.Destinations = append(attrs.Destinations, easytrans.RestDestination{
			StopNo:            easytrans.Ptr(i + 1),
			TaskType:          taskType(d.CollectDeliver),
			Company:           d.CompanyName,
			Contact:           d.Contact,
			Address:           d.Address,
			HouseNo:           d.HouseNo,
			Address2:          d.Address2,
			Postcode:          d.PostalCode,
			City:              d.City,
			Country:           d.Country,
			Phone:             d.Telephone,
			Notes:             d.Remark,
			CustomerReference: d.CustomerReference,
			WaybillNo:         d.WaybillNo,
			Date:              d.DeliveryDate,
			FromTime:          d.DeliveryTimeFrom,
			ToTime:            d.DeliveryTime,
		})
	}
	for i, p := range o.Packages {
		attrs.Goods = append(attrs.Goods, easytrans.RestGoodsLine{
			PackageNo:           easytrans.Ptr(i + 1),
			PickupDestination:   p.CollectDestinationNo,
			DeliveryDestination: p.DeliverDestinationNo,
			Amount:              int(p.Amount),
			PackageTypeNo:       easytrans.Ptr(p.RateTypeNo),
			Weight:              easytrans.Ptr(p.Weight),
			Length:              easytrans.Ptr(p.Length),
			Width:               easytrans.Ptr(p.Width),
			Height:              easytrans.Ptr(p.Height),
			Description:         p.Description,
		})
	}
	attrs.TrackHistory = []easytrans.RestTrackHistoryEntry{{
		TrackID: easytrans.Ptr(1),
		Name:    "Order received",
		Date:    now.Format("2006-01-02"),
		Time:    now.Format("15:04"),
	}}

	stamp := now.Format(time.RFC3339)
	return &easytrans.RestOrder{
		Resource: easytrans.Resource{
			Type:      "order",
			ID:        easytrans.EntityID(strconv.Itoa(no)),
			CreatedAt: stamp,
			UpdatedAt: stamp,
		},
		Attributes: attrs,
	}
}

func taskType(cd easytrans.CollectDeliver) easytrans.TaskType {
	switch cd {
	case easytrans.Pickup:
		return easytrans.TaskPickup
	case easytrans.Delivery:
		return easytrans.TaskDelivery
	default:
		return easytrans.TaskPickupDelivery
	}
}

func (b *Backend) importCustomers(req *importapi.Request, customers []easytrans.Customer) (json.RawMessage, error) {
	contacts := 0
	for _, c := range customers {
		contacts += len(c.Contacts)
	}

	nos := []int{}
	userIDs := map[string][]int{}
	if req.Mode == easytrans.ModeEffect {
		for _, c := range customers {
			no := b.nextCustomerNo
			if c.CustomerNo != nil && c.UpdateOnExistingCustomerNo {
				no = *c.CustomerNo
			} else {
				b.nextCustomerNo++
			}
			nos = append(nos, no)

			stored := restCustomer(no, c)
			var ids []int
			for i := range stored.Contacts {
				id := no*100 + i + 1
				stored.Contacts[i].UserID = easytrans.Ptr(id)
				ids = append(ids, id)
			}
			if len(ids) > 0 {
				userIDs[strconv.Itoa(no)] = ids
			}
			b.upsert(Customers, no, stored)
		}
	}

	return json.Marshal(map[string]any{
		"mode":                    req.Mode,
		"total_customers":         len(customers),
		"total_customer_contacts": contacts,
		"result_description":      fmt.Sprintf("%d customers processed (%s mode)", len(customers), req.Mode),
		"new_customernos":         nos,
		"new_userids":             userIDs,
	})
}

func (b *Backend) upsert(path string, no int, v any) {
	for i := range b.records[path] {
		if b.records[path][i].no == no {
			b.records[path][i].value = v
			return
		}
	}
	b.records[path] = append(b.records[path], record{no: no, value: v})
}

func restCustomer(no int, c easytrans.Customer) *easytrans.RestCustomer {
	out := &easytrans.RestCustomer{
		Resource:    easytrans.Resource{Type: "customer", ID: easytrans.EntityID(strconv.Itoa(no))},
		CustomerNo:  no,
		CompanyName: c.CompanyName,
		BusinessAddress: &easytrans.RestAddress{
			Address:  c.Address,
			HouseNo:  c.HouseNo,
			Address2: c.Address2,
			Postcode: c.PostalCode,
			City:     c.City,
			Country:  c.Country,
		},
		Website:             c.Website,
		DebtorNo:            c.DebtorNo,
		PaymentReference:    c.PaymentRef,
		IBAN:                c.IBAN,
		BIC:                 c.BIC,
		BankNo:              c.BankNo,
		UKSortCode:          c.UKSortCode,
		VATNo:               c.VATNo,
		VatLiable:           true,
		ChamberOfCommerceNo: c.CoCNo,
		EORINo:              c.EORINo,
		Language:            string(c.Language),
		Notes:               c.Remark,
		CRMNotes:            c.CRMNotes,
		Active:              true,
		IsDeleted:           easytrans.Ptr(false),
		ExternalID:          c.ExternalID,
	}
	for _, ct := range c.Contacts {
		out.Contacts = append(out.Contacts, easytrans.RestCustomerContact{
			Salutation:          ct.Salutation,
			Name:                ct.Name,
			Phone:               ct.Telephone,
			Mobile:              ct.Mobile,
			Email:               ct.Email,
			UseEmailForInvoice:  ct.UseEmailForInvoice != nil && *ct.UseEmailForInvoice,
			UseEmailForReminder: ct.UseEmailForReminder != nil && *ct.UseEmailForReminder,
			Notes:               ct.Remark,
			Username:            ct.Username,
		})
	}
	return out
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
