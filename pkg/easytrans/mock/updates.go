package mock

import (
	"github.com/tournevent/easytrans/pkg/easytrans"
)

func applyOrderUpdate(o *easytrans.RestOrderAttributes, u easytrans.OrderUpdate) {
	if u.CarrierNo != nil {
		if *u.CarrierNo == 0 {
			o.CarrierNo = nil
		} else {
			o.CarrierNo = easytrans.Ptr(*u.CarrierNo)
		}
	}
	if u.FleetNo != nil {
		o.FleetNo = easytrans.Ptr(*u.FleetNo)
	}
	set(&o.WaybillNotes, u.WaybillNotes)
	set(&o.InvoiceNotes, u.InvoiceNotes)
	if u.PurchaseInvoiceNotes != nil {
		o.PurchaseInvoiceNotes = easytrans.Ptr(*u.PurchaseInvoiceNotes)
	}
	if u.InternalNotes != nil {
		o.InternalNotes = easytrans.Ptr(*u.InternalNotes)
	}
	if u.ReadyForPurchaseInvoice != nil {
		o.ReadyForPurchaseInvoice = easytrans.Ptr(*u.ReadyForPurchaseInvoice)
	}
	set(&o.ExternalID, u.ExternalID)
	applyDestinations(o, u.Destinations)
	applyGoods(o, u.Goods)
	o.SalesRates = applyRates(o.SalesRates, u.SalesRates)
	o.PurchaseRates = applyRates(o.PurchaseRates, u.PurchaseRates)
}

func applyCarrierUpdate(o *easytrans.RestOrderAttributes, u easytrans.CarrierOrderUpdate) {
	if u.CarrierNotes != nil {
		o.CarrierNotes = easytrans.Ptr(*u.CarrierNotes)
	}
	set(&o.ExternalID, u.ExternalID)
	applyDestinations(o, u.Destinations)
	applyGoods(o, u.Goods)
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func sameRef(a, b *int) bool {
	return a != nil && b != nil && *a == *b
}

// applyDestinations updates the stops the update names. Unmatched entries
// are ignored, as the backend does.
func applyDestinations(o *easytrans.RestOrderAttributes, updates []easytrans.DestinationUpdate) {
	for _, u := range updates {
		for i := range o.Destinations {
			d := &o.Destinations[i]
			if !sameRef(d.AddressID, u.AddressID) && !sameRef(d.StopNo, u.StopNo) {
				continue
			}
			set(&d.Company, u.Company)
			set(&d.Contact, u.Contact)
			set(&d.Address, u.Address)
			set(&d.HouseNo, u.HouseNo)
			set(&d.Address2, u.Address2)
			set(&d.Postcode, u.Postcode)
			set(&d.City, u.City)
			set(&d.Country, u.Country)
			set(&d.Phone, u.Phone)
			set(&d.Notes, u.Notes)
			set(&d.CustomerReference, u.CustomerReference)
			set(&d.WaybillNo, u.WaybillNo)
			set(&d.Date, u.Date)
			set(&d.FromTime, u.FromTime)
			set(&d.ToTime, u.ToTime)
			break
		}
	}
}

func applyGoods(o *easytrans.RestOrderAttributes, updates []easytrans.GoodsUpdate) {
	for _, u := range updates {
		for i := range o.Goods {
			g := &o.Goods[i]
			if !sameRef(g.PackageID, u.PackageID) && !sameRef(g.PackageNo, u.PackageNo) {
				continue
			}
			if u.PickupDestination != nil {
				g.PickupDestination = easytrans.Ptr(*u.PickupDestination)
			}
			if u.DeliveryDestination != nil {
				g.DeliveryDestination = easytrans.Ptr(*u.DeliveryDestination)
			}
			if u.Amount != nil {
				g.Amount = *u.Amount
			}
			if u.PackageTypeNo != nil {
				g.PackageTypeNo = easytrans.Ptr(*u.PackageTypeNo)
			}
			if u.Weight != nil {
				g.Weight = easytrans.Ptr(*u.Weight)
			}
			if u.Length != nil {
				g.Length = easytrans.Ptr(*u.Length)
			}
			if u.Width != nil {
				g.Width = easytrans.Ptr(*u.Width)
			}
			if u.Height != nil {
				g.Height = easytrans.Ptr(*u.Height)
			}
			set(&g.Description, u.Description)
			break
		}
	}
}

// applyRates changes the rate lines named by RateNo and appends the rest.
func applyRates(rates []easytrans.RestRate, updates []easytrans.RateUpdate) []easytrans.RestRate {
	for _, u := range updates {
		i := -1
		for j := range rates {
			if u.RateNo != nil && rates[j].RateNo == *u.RateNo {
				i = j
				break
			}
		}
		if i < 0 {
			r := easytrans.RestRate{RateNo: len(rates) + 1}
			if u.RateNo != nil {
				r.RateNo = *u.RateNo
			}
			rates = append(rates, r)
			i = len(rates) - 1
		}
		r := &rates[i]
		set(&r.Description, u.Description)
		if u.RatePerUnit != nil {
			r.RatePerUnit = *u.RatePerUnit
		}
		if u.SubTotal != nil {
			r.SubTotal = *u.SubTotal
		}
		if u.IsMinimumAmount != nil {
			r.IsMinimumAmount = *u.IsMinimumAmount
		}
		if u.IsPercentage != nil {
			r.IsPercentage = *u.IsPercentage
		}
	}
	return rates
}
