package reconcile

import "github.com/Additional-Code/ordergraph/internal/entity"

// Keys holds the identity function used to match children of each
// collection kind. Two children with the same non-empty key are the same
// child. An empty key never matches, so a child whose key function returns
// "" is removed and re-added on every patch.
type Keys struct {
	Address      func(*entity.Address) string
	LineItem     func(*entity.LineItem) string
	Shipment     func(*entity.Shipment) string
	ShipmentItem func(*entity.ShipmentItem) string
	PaymentIn    func(*entity.PaymentIn) string
	Discount     func(*entity.Discount) string
	TaxDetail    func(*entity.TaxDetail) string
}

// DefaultKeys matches by primary key, except discounts and tax details.
// Discounts match by promotion, or by ID when they carry no promotion.
// Tax details match by name; unnamed ones are always replaced.
func DefaultKeys() Keys {
	return Keys{
		Address:      func(a *entity.Address) string { return a.ID },
		LineItem:     func(l *entity.LineItem) string { return l.ID },
		Shipment:     func(s *entity.Shipment) string { return s.ID },
		ShipmentItem: func(si *entity.ShipmentItem) string { return si.ID },
		PaymentIn:    func(p *entity.PaymentIn) string { return p.ID },
		Discount:     discountKey,
		TaxDetail:    func(t *entity.TaxDetail) string { return t.Name },
	}
}

func discountKey(d *entity.Discount) string {
	switch {
	case d.PromotionID != "":
		return "promotion:" + d.PromotionID
	case d.ID != "":
		return "id:" + d.ID
	}
	return ""
}

// withDefaults fills unset functions from DefaultKeys.
func (k Keys) withDefaults() Keys {
	d := DefaultKeys()
	if k.Address == nil {
		k.Address = d.Address
	}
	if k.LineItem == nil {
		k.LineItem = d.LineItem
	}
	if k.Shipment == nil {
		k.Shipment = d.Shipment
	}
	if k.ShipmentItem == nil {
		k.ShipmentItem = d.ShipmentItem
	}
	if k.PaymentIn == nil {
		k.PaymentIn = d.PaymentIn
	}
	if k.Discount == nil {
		k.Discount = d.Discount
	}
	if k.TaxDetail == nil {
		k.TaxDetail = d.TaxDetail
	}
	return k
}
