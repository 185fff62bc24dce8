package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
)

// Operation is the persisted form of a model.Operation.
type Operation interface {
	Kind() model.Kind
	Base() *OperationBase
}

// OperationBase holds the columns shared by orders, shipments and payments.
type OperationBase struct {
	ID           string          `bun:"id,pk"`
	Number       string          `bun:"number,notnull"`
	Status       string          `bun:"status"`
	Comment      string          `bun:"comment"`
	Currency     string          `bun:"currency"`
	Sum          decimal.Decimal `bun:"sum,type:decimal(18,4),notnull"`
	OuterID      string          `bun:"outer_id"`
	IsApproved   bool            `bun:"is_approved,notnull"`
	IsCancelled  bool            `bun:"is_cancelled,notnull"`
	CancelledAt  *time.Time      `bun:"cancelled_at"`
	CancelReason string          `bun:"cancel_reason"`
	CreatedAt    time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time       `bun:"updated_at,nullzero"`
	CreatedBy    string          `bun:"created_by"`
	ModifiedBy   string          `bun:"modified_by"`
}

// Base returns the shared columns.
func (b *OperationBase) Base() *OperationBase {
	return b
}

func (b *OperationBase) fromModel(m *model.OperationBase, pk *PrimaryKeyMap) {
	b.ID = m.ID
	if b.ID == "" {
		b.ID = newID()
	}
	pk.Add(&m.ID, &b.ID)

	b.Number = m.Number
	b.Status = m.Status
	b.Comment = m.Comment
	b.Currency = m.Currency
	b.Sum = m.Sum
	b.OuterID = m.OuterID
	b.IsApproved = m.IsApproved
	b.IsCancelled = m.IsCancelled
	b.CancelledAt = m.CancelledAt
	b.CancelReason = m.CancelReason
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	b.CreatedBy = m.CreatedBy
	b.ModifiedBy = m.ModifiedBy
}

func (b *OperationBase) toModel(m *model.OperationBase) {
	m.ID = b.ID
	m.Number = b.Number
	m.Status = b.Status
	m.Comment = b.Comment
	m.Currency = b.Currency
	m.Sum = b.Sum
	m.OuterID = b.OuterID
	m.IsApproved = b.IsApproved
	m.IsCancelled = b.IsCancelled
	m.CancelledAt = b.CancelledAt
	m.CancelReason = b.CancelReason
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
	m.CreatedBy = b.CreatedBy
	m.ModifiedBy = b.ModifiedBy
}

// patch copies mutable columns onto target. Identity and creation audit
// columns stay with the target.
func (b *OperationBase) patch(target *OperationBase) {
	target.Number = b.Number
	target.Status = b.Status
	target.Comment = b.Comment
	target.Currency = b.Currency
	target.Sum = b.Sum
	target.OuterID = b.OuterID
	target.IsApproved = b.IsApproved
	target.IsCancelled = b.IsCancelled
	target.CancelledAt = b.CancelledAt
	target.CancelReason = b.CancelReason
	target.ModifiedBy = b.ModifiedBy
	if !b.UpdatedAt.IsZero() {
		target.UpdatedAt = b.UpdatedAt
	}
}

// Collections is a bit set naming child collections.
type Collections uint16

const (
	CollectionAddresses Collections = 1 << iota
	CollectionItems
	CollectionShipments
	CollectionInPayments
	CollectionDiscounts
	CollectionTaxDetails
	CollectionShipmentItems

	// AllCollections marks a graph loaded from storage.
	AllCollections = CollectionAddresses | CollectionItems | CollectionShipments |
		CollectionInPayments | CollectionDiscounts | CollectionTaxDetails | CollectionShipmentItems
)

// Has reports whether every bit of c is set.
func (s Collections) Has(c Collections) bool {
	return s&c == c
}

var collectionNames = []struct {
	bit  Collections
	name string
}{
	{CollectionAddresses, "addresses"},
	{CollectionItems, "items"},
	{CollectionShipments, "shipments"},
	{CollectionInPayments, "in_payments"},
	{CollectionDiscounts, "discounts"},
	{CollectionTaxDetails, "tax_details"},
	{CollectionShipmentItems, "shipment_items"},
}

// String lists the set bits, for logs.
func (s Collections) String() string {
	out := ""
	for _, c := range collectionNames {
		if !s.Has(c.bit) {
			continue
		}
		if out != "" {
			out += "|"
		}
		out += c.name
	}
	if out == "" {
		return "none"
	}
	return out
}

// PrimaryKeyMap remembers which model objects were mapped to which entities
// so generated keys can be written back once the graph is persisted.
type PrimaryKeyMap struct {
	pairs []keyPair
}

type keyPair struct {
	model  *string
	entity *string
}

// NewPrimaryKeyMap returns an empty map.
func NewPrimaryKeyMap() *PrimaryKeyMap {
	return &PrimaryKeyMap{}
}

// Add records a model/entity key pair. A nil map ignores the call.
func (m *PrimaryKeyMap) Add(modelID, entityID *string) {
	if m == nil {
		return
	}
	m.pairs = append(m.pairs, keyPair{model: modelID, entity: entityID})
}

// Resolve copies entity keys back onto the model objects.
func (m *PrimaryKeyMap) Resolve() {
	if m == nil {
		return
	}
	for _, p := range m.pairs {
		*p.model = *p.entity
	}
}

// Len returns the number of recorded pairs.
func (m *PrimaryKeyMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

func newID() string {
	return uuid.NewString()
}

// KindMismatch reports an operation of the wrong variant.
func KindMismatch(arg string, expected model.Kind, actual any) error {
	return errorbank.InvalidArgument(
		fmt.Sprintf("%s must be of kind %s", arg, expected),
		errorbank.WithDetail("argument", arg),
		errorbank.WithDetail("expected", string(expected)),
		errorbank.WithDetail("actual", kindOf(actual)),
	)
}

func kindOf(v any) string {
	switch op := v.(type) {
	case nil:
		return "nil"
	case model.Operation:
		return string(op.Kind())
	case Operation:
		return string(op.Kind())
	default:
		return fmt.Sprintf("%T", v)
	}
}
