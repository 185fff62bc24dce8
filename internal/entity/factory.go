package entity

// Factory creates blank entities. Mapping code never allocates entities
// directly so deployments can substitute extended variants.
type Factory interface {
	NewOrder() *Order
	NewLineItem() *LineItem
	NewShipment() *Shipment
	NewShipmentItem() *ShipmentItem
	NewPaymentIn() *PaymentIn
	NewAddress() *Address
	NewDiscount() *Discount
	NewTaxDetail() *TaxDetail
}

// DefaultFactory allocates the stock entity types.
type DefaultFactory struct{}

var _ Factory = DefaultFactory{}

func (DefaultFactory) NewOrder() *Order               { return &Order{} }
func (DefaultFactory) NewLineItem() *LineItem         { return &LineItem{} }
func (DefaultFactory) NewShipment() *Shipment         { return &Shipment{} }
func (DefaultFactory) NewShipmentItem() *ShipmentItem { return &ShipmentItem{} }
func (DefaultFactory) NewPaymentIn() *PaymentIn       { return &PaymentIn{} }
func (DefaultFactory) NewAddress() *Address           { return &Address{} }
func (DefaultFactory) NewDiscount() *Discount         { return &Discount{} }
func (DefaultFactory) NewTaxDetail() *TaxDetail       { return &TaxDetail{} }
