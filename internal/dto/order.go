package dto

import (
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
)

// ChangeSummary reports how one child collection changed during a patch.
type ChangeSummary struct {
	Collection string `json:"collection"`
	Added      int    `json:"added"`
	Updated    int    `json:"updated"`
	Removed    int    `json:"removed"`
}

// PatchOrderResponse is returned after an order graph has been reconciled.
type PatchOrderResponse struct {
	Order    *model.CustomerOrder `json:"order"`
	Changes  []ChangeSummary      `json:"changes"`
	Dangling int                  `json:"dangling"`
}

// Summarize flattens reconcile stats into a stable, name-sorted list.
func Summarize(stats reconcile.Stats) []ChangeSummary {
	out := make([]ChangeSummary, 0, len(stats))
	for _, name := range stats.Names() {
		st := stats[name]
		out = append(out, ChangeSummary{
			Collection: name,
			Added:      st.Added,
			Updated:    st.Updated,
			Removed:    st.Removed,
		})
	}
	return out
}
