package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind names a concrete operation variant.
type Kind string

const (
	KindCustomerOrder Kind = "customer_order"
	KindShipment      Kind = "shipment"
	KindPaymentIn     Kind = "payment_in"
)

// Operation is a commerce document: an order, or one of the shipments and
// payments recorded against it.
type Operation interface {
	Kind() Kind
	Operation() *OperationBase
}

// OperationBase carries the fields every operation shares.
type OperationBase struct {
	ID           string          `json:"id,omitempty" validate:"max=128"`
	Number       string          `json:"number,omitempty" validate:"max=64"`
	Status       string          `json:"status,omitempty" validate:"max=64"`
	Comment      string          `json:"comment,omitempty" validate:"max=2048"`
	Currency     string          `json:"currency,omitempty" validate:"max=3"`
	Sum          decimal.Decimal `json:"sum"`
	OuterID      string          `json:"outer_id,omitempty" validate:"max=128"`
	IsApproved   bool            `json:"is_approved"`
	IsCancelled  bool            `json:"is_cancelled"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty" validate:"max=2048"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CreatedBy    string          `json:"created_by,omitempty" validate:"max=64"`
	ModifiedBy   string          `json:"modified_by,omitempty" validate:"max=64"`
}

// Operation returns the shared base so callers can work across variants.
func (o *OperationBase) Operation() *OperationBase {
	return o
}
