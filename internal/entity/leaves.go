package entity

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/Additional-Code/ordergraph/internal/model"
)

// Address is an order address row.
type Address struct {
	bun.BaseModel `bun:"table:order_addresses,alias:oa"`

	ID              string `bun:"id,pk"`
	CustomerOrderID string `bun:"customer_order_id,notnull"`
	Position        int    `bun:"position,notnull"`
	AddressType     string `bun:"address_type"`
	Organization    string `bun:"organization"`
	FirstName       string `bun:"first_name"`
	LastName        string `bun:"last_name"`
	Line1           string `bun:"line1"`
	Line2           string `bun:"line2"`
	City            string `bun:"city"`
	RegionID        string `bun:"region_id"`
	RegionName      string `bun:"region_name"`
	PostalCode      string `bun:"postal_code"`
	CountryCode     string `bun:"country_code"`
	CountryName     string `bun:"country_name"`
	Phone           string `bun:"phone"`
	Email           string `bun:"email"`
}

// FromModel fills the row from m, generating an ID when m has none.
func (a *Address) FromModel(m *model.Address, pk *PrimaryKeyMap) *Address {
	a.ID = m.ID
	if a.ID == "" {
		a.ID = newID()
	}
	pk.Add(&m.ID, &a.ID)

	a.AddressType = m.AddressType
	a.Organization = m.Organization
	a.FirstName = m.FirstName
	a.LastName = m.LastName
	a.Line1 = m.Line1
	a.Line2 = m.Line2
	a.City = m.City
	a.RegionID = m.RegionID
	a.RegionName = m.RegionName
	a.PostalCode = m.PostalCode
	a.CountryCode = m.CountryCode
	a.CountryName = m.CountryName
	a.Phone = m.Phone
	a.Email = m.Email
	return a
}

// ToModel fills m from the row.
func (a *Address) ToModel(m *model.Address) *model.Address {
	m.ID = a.ID
	m.AddressType = a.AddressType
	m.Organization = a.Organization
	m.FirstName = a.FirstName
	m.LastName = a.LastName
	m.Line1 = a.Line1
	m.Line2 = a.Line2
	m.City = a.City
	m.RegionID = a.RegionID
	m.RegionName = a.RegionName
	m.PostalCode = a.PostalCode
	m.CountryCode = a.CountryCode
	m.CountryName = a.CountryName
	m.Phone = a.Phone
	m.Email = a.Email
	return m
}

// Patch copies every column but the keys onto target.
func (a *Address) Patch(target *Address) {
	target.AddressType = a.AddressType
	target.Organization = a.Organization
	target.FirstName = a.FirstName
	target.LastName = a.LastName
	target.Line1 = a.Line1
	target.Line2 = a.Line2
	target.City = a.City
	target.RegionID = a.RegionID
	target.RegionName = a.RegionName
	target.PostalCode = a.PostalCode
	target.CountryCode = a.CountryCode
	target.CountryName = a.CountryName
	target.Phone = a.Phone
	target.Email = a.Email
}

// Discount is a promotion reward row. Exactly one owner column is set.
type Discount struct {
	bun.BaseModel `bun:"table:order_discounts,alias:od"`

	ID                    string          `bun:"id,pk"`
	CustomerOrderID       string          `bun:"customer_order_id,nullzero"`
	LineItemID            string          `bun:"line_item_id,nullzero"`
	ShipmentID            string          `bun:"shipment_id,nullzero"`
	Position              int             `bun:"position,notnull"`
	PromotionID           string          `bun:"promotion_id"`
	PromotionDescription  string          `bun:"promotion_description"`
	CouponCode            string          `bun:"coupon_code"`
	Currency              string          `bun:"currency"`
	DiscountAmount        decimal.Decimal `bun:"discount_amount,type:decimal(18,4),notnull"`
	DiscountAmountWithTax decimal.Decimal `bun:"discount_amount_with_tax,type:decimal(18,4),notnull"`
}

// FromModel fills the row from m.
func (d *Discount) FromModel(m *model.Discount, pk *PrimaryKeyMap) *Discount {
	d.ID = m.ID
	if d.ID == "" {
		d.ID = newID()
	}
	pk.Add(&m.ID, &d.ID)

	d.PromotionID = m.PromotionID
	d.PromotionDescription = m.PromotionDescription
	d.CouponCode = m.CouponCode
	d.Currency = m.Currency
	d.DiscountAmount = m.DiscountAmount
	d.DiscountAmountWithTax = m.DiscountAmountWithTax
	return d
}

// ToModel fills m from the row.
func (d *Discount) ToModel(m *model.Discount) *model.Discount {
	m.ID = d.ID
	m.PromotionID = d.PromotionID
	m.PromotionDescription = d.PromotionDescription
	m.CouponCode = d.CouponCode
	m.Currency = d.Currency
	m.DiscountAmount = d.DiscountAmount
	m.DiscountAmountWithTax = d.DiscountAmountWithTax
	return m
}

// Patch copies the reward columns onto target.
func (d *Discount) Patch(target *Discount) {
	target.PromotionID = d.PromotionID
	target.PromotionDescription = d.PromotionDescription
	target.CouponCode = d.CouponCode
	target.Currency = d.Currency
	target.DiscountAmount = d.DiscountAmount
	target.DiscountAmountWithTax = d.DiscountAmountWithTax
}

// TaxDetail is a named tax line row. Exactly one owner column is set.
type TaxDetail struct {
	bun.BaseModel `bun:"table:order_tax_details,alias:otd"`

	ID              string          `bun:"id,pk"`
	CustomerOrderID string          `bun:"customer_order_id,nullzero"`
	LineItemID      string          `bun:"line_item_id,nullzero"`
	ShipmentID      string          `bun:"shipment_id,nullzero"`
	PaymentInID     string          `bun:"payment_in_id,nullzero"`
	Position        int             `bun:"position,notnull"`
	Name            string          `bun:"name"`
	Rate            decimal.Decimal `bun:"rate,type:decimal(18,4),notnull"`
	Amount          decimal.Decimal `bun:"amount,type:decimal(18,4),notnull"`
}

// FromModel fills the row from m. Tax details have no model key, so the row
// always gets a fresh ID; matching happens by name.
func (t *TaxDetail) FromModel(m *model.TaxDetail) *TaxDetail {
	t.ID = newID()
	t.Name = m.Name
	t.Rate = m.Rate
	t.Amount = m.Amount
	return t
}

// ToModel fills m from the row.
func (t *TaxDetail) ToModel(m *model.TaxDetail) *model.TaxDetail {
	m.Name = t.Name
	m.Rate = t.Rate
	m.Amount = t.Amount
	return m
}

// Patch copies the tax columns onto target.
func (t *TaxDetail) Patch(target *TaxDetail) {
	target.Name = t.Name
	target.Rate = t.Rate
	target.Amount = t.Amount
}

func discountsFromModel(list []*model.Discount, f Factory, pk *PrimaryKeyMap) []*Discount {
	out := make([]*Discount, 0, len(list))
	for _, m := range list {
		if m == nil {
			continue
		}
		out = append(out, f.NewDiscount().FromModel(m, pk))
	}
	return out
}

func discountsToModel(list []*Discount, f model.Factory) []*model.Discount {
	out := make([]*model.Discount, 0, len(list))
	for _, d := range list {
		out = append(out, d.ToModel(f.NewDiscount()))
	}
	return out
}

func taxDetailsFromModel(list []*model.TaxDetail, f Factory) []*TaxDetail {
	out := make([]*TaxDetail, 0, len(list))
	for _, m := range list {
		if m == nil {
			continue
		}
		out = append(out, f.NewTaxDetail().FromModel(m))
	}
	return out
}

func taxDetailsToModel(list []*TaxDetail, f model.Factory) []*model.TaxDetail {
	out := make([]*model.TaxDetail, 0, len(list))
	for _, t := range list {
		out = append(out, t.ToModel(f.NewTaxDetail()))
	}
	return out
}
