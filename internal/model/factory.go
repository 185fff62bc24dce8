package model

// Factory creates blank model instances. Deployments that extend the model
// supply their own implementation; DefaultFactory covers the stock types.
type Factory interface {
	NewCustomerOrder() *CustomerOrder
	NewLineItem() *LineItem
	NewShipment() *Shipment
	NewShipmentItem() *ShipmentItem
	NewPaymentIn() *PaymentIn
	NewAddress() *Address
	NewDiscount() *Discount
	NewTaxDetail() *TaxDetail
}

// DefaultFactory returns zero values of the stock model types.
type DefaultFactory struct{}

var _ Factory = DefaultFactory{}

func (DefaultFactory) NewCustomerOrder() *CustomerOrder { return &CustomerOrder{} }
func (DefaultFactory) NewLineItem() *LineItem           { return &LineItem{} }
func (DefaultFactory) NewShipment() *Shipment           { return &Shipment{} }
func (DefaultFactory) NewShipmentItem() *ShipmentItem   { return &ShipmentItem{} }
func (DefaultFactory) NewPaymentIn() *PaymentIn         { return &PaymentIn{} }
func (DefaultFactory) NewAddress() *Address             { return &Address{} }
func (DefaultFactory) NewDiscount() *Discount           { return &Discount{} }
func (DefaultFactory) NewTaxDetail() *TaxDetail         { return &TaxDetail{} }
