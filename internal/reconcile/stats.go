package reconcile

import (
	"sort"

	"github.com/Additional-Code/ordergraph/pkg/collection"
)

// Collection names used in Stats and metric attributes. Nested collections
// of the same kind share one name.
const (
	Addresses     = "addresses"
	Items         = "items"
	Shipments     = "shipments"
	ShipmentItems = "shipment_items"
	InPayments    = "in_payments"
	Discounts     = "discounts"
	TaxDetails    = "tax_details"
)

// Stats counts added, updated and removed children per collection name.
type Stats map[string]collection.Stats

func (s Stats) add(name string, st collection.Stats) {
	s[name] = s[name].Merge(st)
}

// Total sums every collection.
func (s Stats) Total() collection.Stats {
	var total collection.Stats
	for _, st := range s {
		total = total.Merge(st)
	}
	return total
}

// Names returns the collection names in sorted order.
func (s Stats) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
